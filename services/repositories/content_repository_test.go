package repositories

import (
	"testing"
	"time"

	"github.com/adaptiq-labs/practice_api/model"
	"github.com/adaptiq-labs/practice_api/selection"
)

func TestFetchCandidatesAnnotatesWeights(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []int{10, 20, 5}, 10)
	repo := NewContentRepository(db)

	candidates, err := repo.FetchCandidates("u1", selection.Filter{}, nil, 7, 100)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candidates) != 30 {
		t.Fatalf("got %d candidates, want 30", len(candidates))
	}

	weightByTopic := map[string]int{"topic-1": 10, "topic-2": 20, "topic-3": 5}
	for _, c := range candidates {
		if c.SubjectWeight != 10 {
			t.Errorf("question %s subjectWeight = %d, want 10", c.Question.ID, c.SubjectWeight)
		}
		if want := weightByTopic[c.Question.TopicID]; c.TopicWeight != want {
			t.Errorf("question %s topicWeight = %d, want %d", c.Question.ID, c.TopicWeight, want)
		}
	}
}

func TestFetchCandidatesExcludesEverCorrect(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []int{10}, 5)
	repo := NewContentRepository(db)

	if err := repo.RecordQuestionSeen("u1", "q-1-1", true); err != nil {
		t.Fatalf("record seen: %v", err)
	}

	// freshness window disabled so only the permanent exclusion applies
	candidates, err := repo.FetchCandidates("u1", selection.Filter{}, nil, 0, 100)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candidates) != 4 {
		t.Fatalf("got %d candidates, want 4", len(candidates))
	}
	for _, c := range candidates {
		if c.Question.ID == "q-1-1" {
			t.Error("ever-correct question came back in the pool")
		}
	}

	// another user is unaffected
	candidates, err = repo.FetchCandidates("u2", selection.Filter{}, nil, 0, 100)
	if err != nil {
		t.Fatalf("fetch other user: %v", err)
	}
	if len(candidates) != 5 {
		t.Errorf("other user got %d candidates, want 5", len(candidates))
	}
}

func TestFetchCandidatesFreshnessWindow(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []int{10}, 5)
	repo := NewContentRepository(db)

	// seen recently but answered wrong
	if err := repo.RecordQuestionSeen("u1", "q-1-2", false); err != nil {
		t.Fatalf("record seen: %v", err)
	}
	// seen wrong long ago
	old := time.Now().AddDate(0, 0, -30)
	if err := db.Model(&model.UserQuestionHistory{}).
		Where("user_id = ? AND question_id = ?", "u1", "q-1-2").
		Update("last_seen_at", old).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	if err := repo.RecordQuestionSeen("u1", "q-1-3", false); err != nil {
		t.Fatalf("record seen: %v", err)
	}

	candidates, err := repo.FetchCandidates("u1", selection.Filter{}, nil, 7, 100)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	ids := make(map[string]bool)
	for _, c := range candidates {
		ids[c.Question.ID] = true
	}
	if !ids["q-1-2"] {
		t.Error("question seen outside the window should be eligible again")
	}
	if ids["q-1-3"] {
		t.Error("recently seen question should be held back by the freshness window")
	}
}

func TestFetchCandidatesSubjectExclusionAndFilters(t *testing.T) {
	db := newTestDB(t)
	subjectID, _ := seedContent(t, db, []int{10, 10}, 5)
	repo := NewContentRepository(db)

	candidates, err := repo.FetchCandidates("u1", selection.Filter{}, []string{subjectID}, 0, 100)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("excluded subject still produced %d candidates", len(candidates))
	}

	candidates, err = repo.FetchCandidates("u1", selection.Filter{TopicIDs: []string{"topic-2"}}, nil, 0, 100)
	if err != nil {
		t.Fatalf("fetch topic filter: %v", err)
	}
	for _, c := range candidates {
		if c.Question.TopicID != "topic-2" {
			t.Errorf("topic filter leaked question from %s", c.Question.TopicID)
		}
	}

	candidates, err = repo.FetchCandidates("u1", selection.Filter{MinDifficulty: 4}, nil, 0, 100)
	if err != nil {
		t.Fatalf("fetch difficulty filter: %v", err)
	}
	for _, c := range candidates {
		if c.Question.Difficulty < 4 {
			t.Errorf("difficulty filter leaked difficulty %d", c.Question.Difficulty)
		}
	}
}

func TestFetchCandidatesSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []int{10}, 5)
	repo := NewContentRepository(db)

	if err := db.Model(&model.Question{}).Where("id = ?", "q-1-1").Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate question: %v", err)
	}

	candidates, err := repo.FetchCandidates("u1", selection.Filter{}, nil, 0, 100)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candidates) != 4 {
		t.Errorf("got %d candidates, want 4 after deactivation", len(candidates))
	}

	if err := db.Model(&model.Topic{}).Where("id = ?", "topic-1").Update("active_in_random", false).Error; err != nil {
		t.Fatalf("deactivate topic: %v", err)
	}
	candidates, err = repo.FetchCandidates("u1", selection.Filter{}, nil, 0, 100)
	if err != nil {
		t.Fatalf("fetch after topic deactivation: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("inactive topic still produced %d candidates", len(candidates))
	}
}

func TestRecordQuestionSeenAccumulates(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []int{10}, 2)
	repo := NewContentRepository(db)

	if err := repo.RecordQuestionSeen("u1", "q-1-1", false); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := repo.RecordQuestionSeen("u1", "q-1-1", true); err != nil {
		t.Fatalf("second: %v", err)
	}
	if err := repo.RecordQuestionSeen("u1", "q-1-1", true); err != nil {
		t.Fatalf("third: %v", err)
	}

	history, err := repo.GetQuestionHistory("u1", "q-1-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history.TimesSeen != 3 {
		t.Errorf("timesSeen = %d, want 3", history.TimesSeen)
	}
	if history.TimesCorrect != 2 {
		t.Errorf("timesCorrect = %d, want 2", history.TimesCorrect)
	}
	if history.LastSeenAt == nil {
		t.Error("lastSeenAt not set")
	}
}
