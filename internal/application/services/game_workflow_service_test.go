package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"softball-scorebook/internal/application/command"
)

// ---- stubs ----

type noopLogger struct{}

func (noopLogger) Debug(string, map[string]interface{})        {}
func (noopLogger) Info(string, map[string]interface{})         {}
func (noopLogger) Warn(string, map[string]interface{})         {}
func (noopLogger) Error(string, error, map[string]interface{}) {}

type stubNotification struct {
	started []string
	scores  []string
	ended   []string
	err     error
}

func (s *stubNotification) NotifyGameStarted(ctx context.Context, gameID, home, away string) error {
	s.started = append(s.started, gameID)
	return s.err
}

func (s *stubNotification) NotifyScoreUpdate(ctx context.Context, gameID string, home, away int) error {
	s.scores = append(s.scores, fmt.Sprintf("%s:%d-%d", gameID, home, away))
	return s.err
}

func (s *stubNotification) NotifyGameEnded(ctx context.Context, gameID string, home, away int) error {
	s.ended = append(s.ended, gameID)
	return s.err
}

type stubAuth struct {
	userID  string
	allowed bool
	err     error
}

func (s *stubAuth) CurrentUser(ctx context.Context) (string, error) {
	if s.userID == "" {
		return "", errors.New("no user")
	}
	return s.userID, nil
}

func (s *stubAuth) HasPermission(ctx context.Context, userID, operation string) (bool, error) {
	return s.allowed, s.err
}

type stubStartGame struct {
	result *command.StartNewGameResult
	err    error
}

func (s *stubStartGame) Execute(ctx context.Context, cmd *command.StartNewGame) (*command.StartNewGameResult, error) {
	return s.result, s.err
}

// stubRecordAtBat replays scripted outcomes in order, repeating the last.
type stubRecordAtBat struct {
	results []*command.RecordAtBatResult
	errs    []error
	calls   int
}

func (s *stubRecordAtBat) Execute(ctx context.Context, cmd *command.RecordAtBat) (*command.RecordAtBatResult, error) {
	i := s.calls
	s.calls++
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return s.results[i], err
}

type stubSubstitute struct {
	result *command.SubstitutePlayerResult
	err    error
	calls  int
}

func (s *stubSubstitute) Execute(ctx context.Context, cmd *command.SubstitutePlayer) (*command.SubstitutePlayerResult, error) {
	s.calls++
	return s.result, s.err
}

type stubEndInning struct {
	result *command.EndInningResult
	err    error
	calls  int
}

func (s *stubEndInning) Execute(ctx context.Context, cmd *command.EndInning) (*command.EndInningResult, error) {
	s.calls++
	return s.result, s.err
}

type stubUndo struct {
	result *command.UndoResult
	err    error
}

func (s *stubUndo) Execute(ctx context.Context, cmd *command.UndoLastAction) (*command.UndoResult, error) {
	return s.result, s.err
}

type stubRedo struct {
	result *command.RedoResult
	err    error
}

func (s *stubRedo) Execute(ctx context.Context, cmd *command.RedoLastAction) (*command.RedoResult, error) {
	return s.result, s.err
}

func okResult() command.Result { return command.Result{Success: true} }
func badResult(msgs ...string) command.Result {
	return command.Result{Success: false, Errors: msgs}
}

func newTestService(start *stubStartGame, atBat *stubRecordAtBat, sub *stubSubstitute, end *stubEndInning, undo *stubUndo, redo *stubRedo, notify *stubNotification, auth *stubAuth) *GameWorkflowService {
	if start == nil {
		start = &stubStartGame{result: &command.StartNewGameResult{Result: okResult(), GameID: "game-1"}}
	}
	if atBat == nil {
		atBat = &stubRecordAtBat{results: []*command.RecordAtBatResult{{Result: okResult()}}}
	}
	if sub == nil {
		sub = &stubSubstitute{result: &command.SubstitutePlayerResult{Result: okResult()}}
	}
	if end == nil {
		end = &stubEndInning{result: &command.EndInningResult{Result: okResult()}}
	}
	if undo == nil {
		undo = &stubUndo{result: &command.UndoResult{Result: okResult()}}
	}
	if redo == nil {
		redo = &stubRedo{result: &command.RedoResult{Result: okResult()}}
	}
	if notify == nil {
		notify = &stubNotification{}
	}
	if auth == nil {
		auth = &stubAuth{userID: "scorer-1", allowed: true}
	}
	return NewGameWorkflowService(start, atBat, sub, end, undo, redo, noopLogger{}, notify, auth)
}

// ---- ExecuteWithCompensation ----

func TestExecuteWithCompensation_SuccessSkipsCompensation(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil, nil, nil, nil, nil)
	compensated := false

	result, err := svc.ExecuteWithCompensation(context.Background(), "op",
		func(ctx context.Context) (UseCaseResult, error) {
			return &command.RecordAtBatResult{Result: okResult()}, nil
		},
		func(ctx context.Context) error {
			compensated = true
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.Compensated {
		t.Fatalf("result = %+v, want success without compensation", result)
	}
	if compensated {
		t.Fatal("compensation must not run on success")
	}
}

func TestExecuteWithCompensation_LogicalFailureCompensates(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil, nil, nil, nil, nil)
	compensated := false

	result, err := svc.ExecuteWithCompensation(context.Background(), "op",
		func(ctx context.Context) (UseCaseResult, error) {
			return &command.RecordAtBatResult{Result: badResult("batter not active")}, nil
		},
		func(ctx context.Context) error {
			compensated = true
			return nil
		})
	if err != nil {
		t.Fatalf("logical failure must not surface as error, got %v", err)
	}
	if result.Success || !result.Compensated {
		t.Fatalf("result = %+v, want compensated failure", result)
	}
	if !compensated {
		t.Fatal("compensation must run on logical failure")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "batter not active" {
		t.Fatalf("errors = %v", result.Errors)
	}
}

func TestExecuteWithCompensation_FaultReturnsErrorAndSwallowsCompensationFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil, nil, nil, nil, nil)
	opErr := errors.New("store unavailable")

	result, err := svc.ExecuteWithCompensation(context.Background(), "op",
		func(ctx context.Context) (UseCaseResult, error) {
			return nil, opErr
		},
		func(ctx context.Context) error {
			return errors.New("compensation also failed")
		})
	if !errors.Is(err, opErr) {
		t.Fatalf("error = %v, want the operation fault", err)
	}
	if result.Success || !result.Compensated {
		t.Fatalf("result = %+v, want compensated failure", result)
	}
}

// ---- ExecuteInTransaction ----

func TestExecuteInTransaction_AllStepsSucceed(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil, nil, nil, nil, nil)
	var order []string

	step := func(name string) TransactionStep {
		return TransactionStep{
			Name: name,
			Run: func(ctx context.Context) (UseCaseResult, error) {
				order = append(order, name)
				return &command.RecordAtBatResult{Result: okResult()}, nil
			},
			Rollback: func(ctx context.Context) error {
				order = append(order, "rollback-"+name)
				return nil
			},
		}
	}

	tx := svc.ExecuteInTransaction(context.Background(), "tx", []TransactionStep{step("a"), step("b"), step("c")})
	if !tx.Success || tx.RollbackApplied {
		t.Fatalf("tx = %+v, want clean success", tx)
	}
	if strings.Join(order, ",") != "a,b,c" {
		t.Fatalf("order = %v", order)
	}
	if len(tx.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(tx.Results))
	}
}

func TestExecuteInTransaction_FailureRollsBackInReverse(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil, nil, nil, nil, nil)
	var order []string

	ok := func(name string) TransactionStep {
		return TransactionStep{
			Name: name,
			Run: func(ctx context.Context) (UseCaseResult, error) {
				order = append(order, name)
				return &command.RecordAtBatResult{Result: okResult()}, nil
			},
			Rollback: func(ctx context.Context) error {
				order = append(order, "rollback-"+name)
				return nil
			},
		}
	}
	failing := TransactionStep{
		Name: "c",
		Run: func(ctx context.Context) (UseCaseResult, error) {
			order = append(order, "c")
			return &command.RecordAtBatResult{Result: badResult("slot vacant")}, nil
		},
	}
	never := TransactionStep{
		Name: "d",
		Run: func(ctx context.Context) (UseCaseResult, error) {
			order = append(order, "d")
			return &command.RecordAtBatResult{Result: okResult()}, nil
		},
	}

	tx := svc.ExecuteInTransaction(context.Background(), "tx",
		[]TransactionStep{ok("a"), ok("b"), failing, never})
	if tx.Success || !tx.RollbackApplied {
		t.Fatalf("tx = %+v, want rolled-back failure", tx)
	}
	if strings.Join(order, ",") != "a,b,c,rollback-b,rollback-a" {
		t.Fatalf("order = %v", order)
	}
	if len(tx.Errors) != 1 || !strings.Contains(tx.Errors[0], "slot vacant") {
		t.Fatalf("errors = %v", tx.Errors)
	}
}

// ---- AttemptOperationWithRetry ----

func TestAttemptOperationWithRetry_SucceedsOnSecondAttempt(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil, nil, nil, nil, nil)
	attempts := 0

	outcome, err := svc.AttemptOperationWithRetry(context.Background(), "op",
		func(ctx context.Context) (UseCaseResult, error) {
			attempts++
			if attempts == 1 {
				return &command.RecordAtBatResult{Result: badResult("transient")}, nil
			}
			return &command.RecordAtBatResult{Result: okResult()}, nil
		}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Attempts != 2 || !outcome.IsSuccess() {
		t.Fatalf("outcome = %+v, want success on attempt 2", outcome)
	}
}

func TestAttemptOperationWithRetry_ExhaustionReportsAttemptCount(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil, nil, nil, nil, nil)

	outcome, err := svc.AttemptOperationWithRetry(context.Background(), "RecordAtBat",
		func(ctx context.Context) (UseCaseResult, error) {
			return &command.RecordAtBatResult{Result: badResult("still failing")}, nil
		}, 1)
	if err != nil {
		t.Fatalf("logical exhaustion must not surface as error, got %v", err)
	}
	if outcome.IsSuccess() {
		t.Fatal("outcome must be a failure")
	}
	joined := strings.Join(outcome.ErrorMessages(), ";")
	if !strings.Contains(joined, "RecordAtBat failed after 1 attempts") {
		t.Fatalf("messages = %q", joined)
	}
}

func TestAttemptOperationWithRetry_FaultOnFinalAttemptReturnsError(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil, nil, nil, nil, nil)
	fault := errors.New("event store down")

	_, err := svc.AttemptOperationWithRetry(context.Background(), "op",
		func(ctx context.Context) (UseCaseResult, error) {
			return nil, fault
		}, 1)
	if !errors.Is(err, fault) {
		t.Fatalf("error = %v, want the fault", err)
	}
}

func TestAttemptOperationWithRetry_CancelledContextStopsWaiting(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil, nil, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AttemptOperationWithRetry(ctx, "op",
		func(ctx context.Context) (UseCaseResult, error) {
			return &command.RecordAtBatResult{Result: badResult("transient")}, nil
		}, 3)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestBackoffDelay_DoublesAndCaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
		{8, 10 * time.Second},
	}
	for _, tc := range cases {
		if got := backoffDelay(tc.attempt); got != tc.want {
			t.Fatalf("backoffDelay(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

// ---- CompleteAtBatSequence ----

func TestCompleteAtBatSequence_FullFollowThrough(t *testing.T) {
	t.Parallel()

	atBat := &stubRecordAtBat{results: []*command.RecordAtBatResult{{
		Result:      okResult(),
		RunsScored:  2,
		Outs:        3,
		InningEnded: true,
		HomeScore:   5,
		AwayScore:   3,
	}}}
	sub := &stubSubstitute{result: &command.SubstitutePlayerResult{Result: okResult()}}
	end := &stubEndInning{result: &command.EndInningResult{Result: okResult()}}
	notify := &stubNotification{}
	svc := newTestService(nil, atBat, sub, end, nil, nil, notify, nil)

	result := svc.CompleteAtBatSequence(context.Background(), CompleteAtBat{
		AtBat:          command.RecordAtBat{GameID: "game-1", BattingSide: "HOME", BatterID: "p1", Result: "DOUBLE", RunsScored: 2},
		CheckInningEnd: true,
		QueuedSubstitutions: []command.SubstitutePlayer{
			{GameID: "game-1", TeamSide: "HOME", BattingSlot: 1},
			{GameID: "game-1", TeamSide: "HOME", BattingSlot: 2},
		},
		NotifyScore: true,
	})

	if !result.IsSuccess() {
		t.Fatalf("result = %+v, want success", result)
	}
	if !result.InningCloseAttempted || !result.InningClosed {
		t.Fatalf("inning close = attempted=%v closed=%v", result.InningCloseAttempted, result.InningClosed)
	}
	if end.calls != 1 || sub.calls != 2 {
		t.Fatalf("endInning calls=%d sub calls=%d, want 1 and 2", end.calls, sub.calls)
	}
	if !result.NotificationSent || len(notify.scores) != 1 {
		t.Fatalf("notification sent=%v scores=%v", result.NotificationSent, notify.scores)
	}
}

func TestCompleteAtBatSequence_AtBatFailureIsFatal(t *testing.T) {
	t.Parallel()

	atBat := &stubRecordAtBat{results: []*command.RecordAtBatResult{{
		Result: badResult("game is over"),
	}}}
	sub := &stubSubstitute{result: &command.SubstitutePlayerResult{Result: okResult()}}
	end := &stubEndInning{result: &command.EndInningResult{Result: okResult()}}
	svc := newTestService(nil, atBat, sub, end, nil, nil, nil, nil)

	result := svc.CompleteAtBatSequence(context.Background(), CompleteAtBat{
		AtBat:               command.RecordAtBat{GameID: "game-1"},
		CheckInningEnd:      true,
		QueuedSubstitutions: []command.SubstitutePlayer{{GameID: "game-1"}},
	})

	if result.IsSuccess() {
		t.Fatal("result must be a failure")
	}
	if end.calls != 0 || sub.calls != 0 {
		t.Fatalf("follow-ups must not run after a fatal at-bat: end=%d sub=%d", end.calls, sub.calls)
	}
}

func TestCompleteAtBatSequence_FollowUpFailuresAreCollected(t *testing.T) {
	t.Parallel()

	atBat := &stubRecordAtBat{results: []*command.RecordAtBatResult{{
		Result:      okResult(),
		InningEnded: true,
	}}}
	end := &stubEndInning{result: &command.EndInningResult{Result: badResult("no open inning")}}
	sub := &stubSubstitute{result: &command.SubstitutePlayerResult{Result: badResult("illegal re-entry")}}
	svc := newTestService(nil, atBat, sub, end, nil, nil, nil, nil)

	result := svc.CompleteAtBatSequence(context.Background(), CompleteAtBat{
		AtBat:               command.RecordAtBat{GameID: "game-1"},
		CheckInningEnd:      true,
		QueuedSubstitutions: []command.SubstitutePlayer{{GameID: "game-1"}},
	})

	if !result.IsSuccess() {
		t.Fatal("follow-up failures must not sink the sequence")
	}
	if result.InningClosed {
		t.Fatal("inning close must be reported as failed")
	}
	joined := strings.Join(result.Errors, ";")
	if !strings.Contains(joined, "no open inning") || !strings.Contains(joined, "illegal re-entry") {
		t.Fatalf("errors = %v", result.Errors)
	}
}

// ---- CompleteGameWorkflow ----

func TestCompleteGameWorkflow_HappyPath(t *testing.T) {
	t.Parallel()

	start := &stubStartGame{result: &command.StartNewGameResult{Result: okResult(), GameID: "game-9"}}
	atBat := &stubRecordAtBat{results: []*command.RecordAtBatResult{
		{Result: okResult(), HomeScore: 1},
		{Result: okResult(), HomeScore: 2},
		{Result: okResult(), HomeScore: 3, GameEnded: true},
	}}
	sub := &stubSubstitute{result: &command.SubstitutePlayerResult{Result: okResult()}}
	notify := &stubNotification{}
	svc := newTestService(start, atBat, sub, nil, nil, nil, notify, nil)

	result := svc.CompleteGameWorkflow(context.Background(), CompleteGame{
		Start:         command.StartNewGame{HomeTeamName: "Hawks", AwayTeamName: "Owls"},
		AtBats:        []command.RecordAtBat{{}, {}, {}},
		Substitutions: []command.SubstitutePlayer{{}},
	})

	if !result.IsSuccess() {
		t.Fatalf("result = %+v, want success", result)
	}
	if result.GameID != "game-9" || !result.GameCompleted {
		t.Fatalf("gameID=%s completed=%v", result.GameID, result.GameCompleted)
	}
	if result.AtBatsAttempted != 3 || result.AtBatsSucceeded != 3 {
		t.Fatalf("at-bats attempted=%d succeeded=%d", result.AtBatsAttempted, result.AtBatsSucceeded)
	}
	if result.SubstitutionsApplied != 1 {
		t.Fatalf("substitutions applied = %d, want 1", result.SubstitutionsApplied)
	}
	if len(notify.started) != 1 || len(notify.ended) != 1 || !result.NotificationSent {
		t.Fatalf("notifications: started=%v ended=%v sent=%v", notify.started, notify.ended, result.NotificationSent)
	}
}

func TestCompleteGameWorkflow_StartFailureIsFatal(t *testing.T) {
	t.Parallel()

	start := &stubStartGame{result: &command.StartNewGameResult{Result: badResult("duplicate jersey")}}
	atBat := &stubRecordAtBat{results: []*command.RecordAtBatResult{{Result: okResult()}}}
	svc := newTestService(start, atBat, nil, nil, nil, nil, nil, nil)

	result := svc.CompleteGameWorkflow(context.Background(), CompleteGame{
		Start:  command.StartNewGame{},
		AtBats: []command.RecordAtBat{{}},
	})

	if result.IsSuccess() || result.AtBatsAttempted != 0 {
		t.Fatalf("result = %+v, want immediate failure without at-bats", result)
	}
	if atBat.calls != 0 {
		t.Fatalf("at-bat calls = %d, want 0", atBat.calls)
	}
}

func TestCompleteGameWorkflow_StopsOnFailureUnlessContinuing(t *testing.T) {
	t.Parallel()

	makeService := func() (*GameWorkflowService, *stubRecordAtBat) {
		atBat := &stubRecordAtBat{results: []*command.RecordAtBatResult{
			{Result: okResult()},
			{Result: badResult("batter not in lineup")},
			{Result: okResult()},
		}}
		return newTestService(nil, atBat, nil, nil, nil, nil, nil, nil), atBat
	}

	svc, atBat := makeService()
	result := svc.CompleteGameWorkflow(context.Background(), CompleteGame{
		AtBats: []command.RecordAtBat{{}, {}, {}},
	})
	if result.IsSuccess() || atBat.calls != 2 {
		t.Fatalf("calls = %d success=%v, want stop after second at-bat", atBat.calls, result.IsSuccess())
	}

	svc, atBat = makeService()
	result = svc.CompleteGameWorkflow(context.Background(), CompleteGame{
		AtBats:            []command.RecordAtBat{{}, {}, {}},
		ContinueOnFailure: true,
	})
	if atBat.calls != 3 {
		t.Fatalf("calls = %d, want all three attempted", atBat.calls)
	}
	if result.AtBatsSucceeded != 2 || result.AtBatsFailed != 1 {
		t.Fatalf("succeeded=%d failed=%d", result.AtBatsSucceeded, result.AtBatsFailed)
	}
}

func TestCompleteGameWorkflow_RespectsAttemptBudget(t *testing.T) {
	t.Parallel()

	atBat := &stubRecordAtBat{results: []*command.RecordAtBatResult{{Result: okResult()}}}
	svc := newTestService(nil, atBat, nil, nil, nil, nil, nil, nil)

	result := svc.CompleteGameWorkflow(context.Background(), CompleteGame{
		AtBats:      []command.RecordAtBat{{}, {}, {}, {}},
		MaxAttempts: 2,
	})

	if result.AtBatsAttempted != 2 {
		t.Fatalf("attempted = %d, want 2", result.AtBatsAttempted)
	}
	joined := strings.Join(result.Errors, ";")
	if !strings.Contains(joined, "exceeded maximum at-bat attempts") {
		t.Fatalf("errors = %v", result.Errors)
	}
}

// ---- undo/redo and permissions ----

func TestUndoRedoPassThrough(t *testing.T) {
	t.Parallel()

	undo := &stubUndo{result: &command.UndoResult{Result: okResult(), GameID: "game-1", UndoneAction: "RecordAtBat"}}
	redo := &stubRedo{result: &command.RedoResult{Result: badResult("nothing to redo"), GameID: "game-1"}}
	svc := newTestService(nil, nil, nil, nil, undo, redo, nil, nil)

	undone, err := svc.UndoLastGameAction(context.Background(), &command.UndoLastAction{GameID: "game-1"})
	if err != nil || !undone.IsSuccess() || undone.UndoneAction != "RecordAtBat" {
		t.Fatalf("undo = %+v err=%v", undone, err)
	}

	redone, err := svc.RedoLastGameAction(context.Background(), &command.RedoLastAction{GameID: "game-1"})
	if err != nil {
		t.Fatalf("redo error: %v", err)
	}
	if redone.IsSuccess() {
		t.Fatal("redo failure must pass through unchanged")
	}
}

func TestValidateGameOperationPermissions(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil, nil, nil, nil, &stubAuth{userID: "scorer-1", allowed: true})
	check := svc.ValidateGameOperationPermissions(context.Background(), "game-1", "game:record")
	if !check.Valid || check.UserID != "scorer-1" {
		t.Fatalf("check = %+v, want valid", check)
	}

	svc = newTestService(nil, nil, nil, nil, nil, nil, nil, &stubAuth{userID: "scorer-1", allowed: false})
	check = svc.ValidateGameOperationPermissions(context.Background(), "game-1", "game:manage")
	if check.Valid || !strings.Contains(check.Reason, "game:manage") {
		t.Fatalf("check = %+v, want denial naming the permission", check)
	}

	svc = newTestService(nil, nil, nil, nil, nil, nil, nil, &stubAuth{})
	check = svc.ValidateGameOperationPermissions(context.Background(), "game-1", "game:record")
	if check.Valid || check.Reason != "no authenticated user" {
		t.Fatalf("check = %+v, want unauthenticated denial", check)
	}
}

func TestCompleteAtBatSequence_GameEndingCloseNotifies(t *testing.T) {
	t.Parallel()

	atBat := &stubRecordAtBat{results: []*command.RecordAtBatResult{{
		Result:      okResult(),
		Outs:        3,
		InningEnded: true,
		HomeScore:   4,
		AwayScore:   2,
	}}}
	end := &stubEndInning{result: &command.EndInningResult{Result: okResult(), GameEnded: true}}
	notify := &stubNotification{}
	svc := newTestService(nil, atBat, nil, end, nil, nil, notify, nil)

	result := svc.CompleteAtBatSequence(context.Background(), CompleteAtBat{
		AtBat:          command.RecordAtBat{GameID: "game-1", BattingSide: "HOME", BatterID: "p1", Result: "OUT"},
		CheckInningEnd: true,
	})

	if !result.IsSuccess() || !result.InningClosed {
		t.Fatalf("result = %+v", result)
	}
	if !result.GameCompleted {
		t.Fatal("a game-ending close must surface on the sequence result")
	}
	if len(notify.ended) != 1 || notify.ended[0] != "game-1" {
		t.Fatalf("game end notifications = %v, want [game-1]", notify.ended)
	}
}
