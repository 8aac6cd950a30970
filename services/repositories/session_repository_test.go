package repositories

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/adaptiq-labs/practice_api/model"
	"github.com/adaptiq-labs/practice_api/selection"
	"github.com/adaptiq-labs/practice_api/shared"
)

// TestSessionLifecycle walks the full flow: sample 10 of 50 questions across
// three weighted topics, answer 7 correct / 3 wrong, complete, and check the
// stored counters.
func TestSessionLifecycle(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []int{10, 20, 5}, 17) // 51 questions, limit trims below

	contentRepo := NewContentRepository(db)
	sessionRepo := NewSessionRepository(db)

	candidates, err := contentRepo.FetchCandidates("u1", selection.Filter{}, nil, 7, 50)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candidates) != 50 {
		t.Fatalf("pool = %d, want 50", len(candidates))
	}

	weighted := make([]selection.WeightedCandidate, len(candidates))
	for i, c := range candidates {
		weighted[i] = selection.WeightedCandidate{Candidate: c, Weight: c.BaseWeight()}
	}
	sampler := selection.NewSampler(rand.New(rand.NewSource(7)))
	drawn := sampler.Sample(weighted, 10)
	if len(drawn) != 10 {
		t.Fatalf("drawn = %d, want 10", len(drawn))
	}

	session := &model.PracticeSession{
		UserID:         "u1",
		Strategy:       shared.StrategyBalanced,
		Status:         shared.SessionInProgress,
		TotalQuestions: len(drawn),
	}
	questions := make([]model.SessionQuestion, len(drawn))
	for i, wc := range drawn {
		questions[i] = model.SessionQuestion{QuestionID: wc.Question.ID, Order: i + 1}
	}
	created, err := sessionRepo.CreateSession(session, questions)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	stored, err := sessionRepo.GetSessionQuestions(created.ID)
	if err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if len(stored) != 10 {
		t.Fatalf("stored questions = %d, want 10", len(stored))
	}
	for i, sq := range stored {
		if sq.Order != i+1 {
			t.Errorf("question %d has order %d", i, sq.Order)
		}
	}

	for i, sq := range stored {
		isCorrect := i < 7
		var selected *string
		if opt, err := contentRepo.GetCorrectOption(sq.QuestionID); err == nil && isCorrect {
			selected = &opt.ID
		} else {
			wrong := fmt.Sprintf("%s-opt-1", sq.QuestionID)
			selected = &wrong
		}

		answer := &model.SessionAnswer{
			SessionID:        created.ID,
			QuestionID:       sq.QuestionID,
			SelectedOptionID: selected,
			IsCorrect:        isCorrect,
			TimeSpentSeconds: 30,
		}
		if _, err := sessionRepo.CreateAnswer(answer); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if err := sessionRepo.ApplyAnswerToCounters(created.ID, isCorrect, 30); err != nil {
			t.Fatalf("counters %d: %v", i, err)
		}
	}

	got, err := sessionRepo.GetSession(created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.QuestionsAttempted != 10 || got.CorrectAnswers != 7 || got.WrongAnswers != 3 {
		t.Errorf("counters = %d/%d/%d, want 10/7/3", got.QuestionsAttempted, got.CorrectAnswers, got.WrongAnswers)
	}
	if got.Accuracy != 70.0 {
		t.Errorf("accuracy = %v, want 70.00", got.Accuracy)
	}
	if got.TimeSpentSeconds != 300 {
		t.Errorf("timeSpentSeconds = %d, want 300", got.TimeSpentSeconds)
	}

	finalized, err := sessionRepo.FinalizeSession(created.ID, 80, got.Accuracy, time.Now())
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !finalized {
		t.Fatal("first finalize should win the transition")
	}

	finalized, err = sessionRepo.FinalizeSession(created.ID, 999, 0, time.Now())
	if err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	if finalized {
		t.Error("second finalize should be a no-op")
	}

	got, _ = sessionRepo.GetSession(created.ID)
	if got.Status != shared.SessionCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if got.XPEarned != 80 {
		t.Errorf("xpEarned = %d, want 80 from the first finalize", got.XPEarned)
	}
}

func TestDuplicateAnswerRejectedByIndex(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []int{10}, 3)
	sessionRepo := NewSessionRepository(db)

	session := &model.PracticeSession{UserID: "u1", Strategy: shared.StrategyBalanced, Status: shared.SessionInProgress, TotalQuestions: 1}
	created, err := sessionRepo.CreateSession(session, []model.SessionQuestion{{QuestionID: "q-1-1", Order: 1}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first := &model.SessionAnswer{SessionID: created.ID, QuestionID: "q-1-1", IsCorrect: true}
	if _, err := sessionRepo.CreateAnswer(first); err != nil {
		t.Fatalf("first answer: %v", err)
	}

	dup := &model.SessionAnswer{SessionID: created.ID, QuestionID: "q-1-1", IsCorrect: false}
	_, err = sessionRepo.CreateAnswer(dup)
	if err == nil {
		t.Fatal("duplicate answer should violate the unique index")
	}
	if !IsDuplicateKey(err) {
		t.Errorf("IsDuplicateKey(%v) = false, want true", err)
	}
}

func TestAbandonActiveSessions(t *testing.T) {
	db := newTestDB(t)
	sessionRepo := NewSessionRepository(db)

	for i := 0; i < 2; i++ {
		s := &model.PracticeSession{UserID: "u1", Strategy: shared.StrategyBalanced, Status: shared.SessionInProgress, TotalQuestions: 1}
		if _, err := sessionRepo.CreateSession(s, nil); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	other := &model.PracticeSession{UserID: "u2", Strategy: shared.StrategyBalanced, Status: shared.SessionInProgress, TotalQuestions: 1}
	if _, err := sessionRepo.CreateSession(other, nil); err != nil {
		t.Fatalf("create other: %v", err)
	}

	if err := sessionRepo.AbandonActiveSessions("u1"); err != nil {
		t.Fatalf("abandon: %v", err)
	}

	active, err := sessionRepo.GetActiveSession("u1")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active != nil {
		t.Error("u1 should have no active session left")
	}

	active, err = sessionRepo.GetActiveSession("u2")
	if err != nil {
		t.Fatalf("active other: %v", err)
	}
	if active == nil {
		t.Error("u2's session should be untouched")
	}
}

func TestCountCompletedSessionsInSubject(t *testing.T) {
	db := newTestDB(t)
	subjectID, _ := seedContent(t, db, []int{10}, 3)
	sessionRepo := NewSessionRepository(db)

	session := &model.PracticeSession{UserID: "u1", Strategy: shared.StrategyBalanced, Status: shared.SessionInProgress, TotalQuestions: 1}
	created, err := sessionRepo.CreateSession(session, []model.SessionQuestion{{QuestionID: "q-1-1", Order: 1}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := sessionRepo.CreateAnswer(&model.SessionAnswer{SessionID: created.ID, QuestionID: "q-1-1", IsCorrect: true}); err != nil {
		t.Fatalf("answer: %v", err)
	}

	count, err := sessionRepo.CountCompletedSessionsInSubject("u1", subjectID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("in-progress session counted: %d", count)
	}

	if _, err := sessionRepo.FinalizeSession(created.ID, 10, 100, time.Now()); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	count, err = sessionRepo.CountCompletedSessionsInSubject("u1", subjectID)
	if err != nil {
		t.Fatalf("count after finalize: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if count, _ := sessionRepo.CountCompletedSessionsInSubject("u1", "other-subject"); count != 0 {
		t.Errorf("other subject count = %d, want 0", count)
	}
}
