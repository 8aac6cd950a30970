package services

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adaptiq-labs/practice_api/model"
	"github.com/adaptiq-labs/practice_api/services/repositories"
	"github.com/adaptiq-labs/practice_api/shared"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestXPRequiredForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 100},
		{2, 114},  // floor(100 * 1.15)
		{3, 132},  // floor(100 * 1.3225)
		{5, 174},  // floor(100 * 1.749...)
		{10, 305}, // floor(100 * 3.0590...)
	}

	for _, tt := range tests {
		if got := xpRequiredForLevel(tt.level); got != tt.want {
			t.Errorf("xpRequiredForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestApplyXP(t *testing.T) {
	tests := []struct {
		name          string
		startXP       int
		delta         int
		wantLevel     int
		wantLeveled   bool
		wantXPToNext  int
	}{
		{"no level up", 0, 50, 1, false, 50},
		{"exact threshold levels", 0, 100, 2, true, 114},
		{"two levels at once", 0, 250, 3, true, 96}, // 100+114=214, next costs 132, 214+132-250
		{"already mid level", 150, 30, 2, false, 34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &model.UserStats{TotalXP: tt.startXP, Level: 1}
			applyXP(stats, 0) // normalize level for the starting XP
			startLevel := stats.Level

			leveled := applyXP(stats, tt.delta)
			if stats.Level != tt.wantLevel {
				t.Errorf("level = %d, want %d", stats.Level, tt.wantLevel)
			}
			wantLeveled := tt.wantLeveled && stats.Level > startLevel
			if leveled != wantLeveled {
				t.Errorf("leveled = %v, want %v", leveled, wantLeveled)
			}
			if stats.XPToNextLevel != tt.wantXPToNext {
				t.Errorf("xpToNextLevel = %d, want %d", stats.XPToNextLevel, tt.wantXPToNext)
			}
		})
	}
}

func TestApplyStreak(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name            string
		current         int
		longest         int
		activeToday     bool
		activeYesterday bool
		wantCurrent     int
		wantLongest     int
	}{
		{"first ever completion", 0, 0, false, false, 1, 1},
		{"consecutive day extends", 3, 5, false, true, 4, 5},
		{"extends past longest", 5, 5, false, true, 6, 6},
		{"same day is a no-op", 4, 6, true, false, 4, 6},
		{"gap resets to one", 9, 9, false, false, 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &model.UserStats{CurrentStreak: tt.current, LongestStreak: tt.longest}
			applyStreak(stats, tt.activeToday, tt.activeYesterday, now)

			if stats.CurrentStreak != tt.wantCurrent {
				t.Errorf("currentStreak = %d, want %d", stats.CurrentStreak, tt.wantCurrent)
			}
			if stats.LongestStreak != tt.wantLongest {
				t.Errorf("longestStreak = %d, want %d", stats.LongestStreak, tt.wantLongest)
			}
			if stats.LastActivityDate == nil {
				t.Error("lastActivityDate not set")
			}
		})
	}
}

func TestEvaluateCriteria(t *testing.T) {
	svc := &ProgressionService{}
	sessionRepo := repositories.NewSessionRepository(newTestDB(t))

	stats := &model.UserStats{
		CurrentStreak:           7,
		OverallAccuracy:         85,
		TotalQuestionsAttempted: 40,
		TotalQuizzesCompleted:   12,
	}
	session := &model.PracticeSession{
		UserID:             "u1",
		Accuracy:           92,
		QuestionsAttempted: 10,
	}

	tests := []struct {
		name     string
		criteria model.BadgeCriteria
		wantMet  bool
		wantErr  bool
	}{
		{"streak met", model.BadgeCriteria{Type: shared.BadgeTypeStreak, Days: 7}, true, false},
		{"streak not met", model.BadgeCriteria{Type: shared.BadgeTypeStreak, Days: 30}, false, false},
		{"streak invalid days", model.BadgeCriteria{Type: shared.BadgeTypeStreak}, false, true},
		{"session accuracy met", model.BadgeCriteria{Type: shared.BadgeTypeAccuracy, Percentage: 90, MinQuestions: 10}, true, false},
		{"session accuracy below min questions", model.BadgeCriteria{Type: shared.BadgeTypeAccuracy, Percentage: 90, MinQuestions: 20}, false, false},
		{"lifetime accuracy not met", model.BadgeCriteria{Type: shared.BadgeTypeAccuracy, Percentage: 90, MinQuestions: 10, Lifetime: true}, false, false},
		{"lifetime accuracy met", model.BadgeCriteria{Type: shared.BadgeTypeAccuracy, Percentage: 80, MinQuestions: 10, Lifetime: true}, true, false},
		{"lifetime quiz count met", model.BadgeCriteria{Type: shared.BadgeTypeQuizCount, Count: 10, Lifetime: true}, true, false},
		{"lifetime quiz count not met", model.BadgeCriteria{Type: shared.BadgeTypeQuizCount, Count: 100, Lifetime: true}, false, false},
		{"session quiz count met", model.BadgeCriteria{Type: shared.BadgeTypeQuizCount, Count: 1}, true, false},
		{"session quiz count ignores lifetime total", model.BadgeCriteria{Type: shared.BadgeTypeQuizCount, Count: 10}, false, false},
		{"subject master empty subject", model.BadgeCriteria{Type: shared.BadgeTypeSubjectMaster, Count: 5}, false, true},
		{"subject master no sessions", model.BadgeCriteria{Type: shared.BadgeTypeSubjectMaster, SubjectID: "s1", Count: 1}, false, false},
		{"unknown type errors", model.BadgeCriteria{Type: "mystery"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			met, _, err := svc.evaluateCriteria(sessionRepo, tt.criteria, stats, session)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if met != tt.wantMet {
				t.Errorf("met = %v, want %v", met, tt.wantMet)
			}
		})
	}
}

func TestProgressPct(t *testing.T) {
	tests := []struct {
		current, target int
		want            float64
	}{
		{0, 10, 0},
		{5, 10, 50},
		{10, 10, 100},
		{15, 10, 100},
		{1, 3, 33.33},
		{1, 0, 0},
	}

	for _, tt := range tests {
		if got := progressPct(tt.current, tt.target); got != tt.want {
			t.Errorf("progressPct(%d, %d) = %v, want %v", tt.current, tt.target, tt.want)
		}
	}
}

func TestApplyCompletionStreakIdempotentSameDay(t *testing.T) {
	db := newTestDB(t)
	svc := &ProgressionService{}
	svc.statsRepo = repositories.NewStatsRepository(db)
	svc.contentRepo = repositories.NewContentRepository(db)
	svc.sessionRepo = repositories.NewSessionRepository(db)

	completedAt := time.Now()
	session := &model.PracticeSession{
		ID:                 "sess1",
		UserID:             "u1",
		Status:             shared.SessionCompleted,
		QuestionsAttempted: 4,
		CorrectAnswers:     3,
		XPEarned:           30,
		CompletedAt:        &completedAt,
	}

	result, err := svc.ApplyCompletion(db, session, nil)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if result.CurrentStreak != 1 {
		t.Fatalf("streak after first completion = %d, want 1", result.CurrentStreak)
	}

	session.ID = "sess2"
	result, err = svc.ApplyCompletion(db, session, nil)
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if result.CurrentStreak != 1 {
		t.Errorf("streak after same-day completion = %d, want 1", result.CurrentStreak)
	}

	stats, err := svc.statsRepo.GetOrCreateStats("u1")
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if stats.TotalQuizzesCompleted != 2 {
		t.Errorf("totalQuizzesCompleted = %d, want 2", stats.TotalQuizzesCompleted)
	}
	if stats.TotalXP != 60 {
		t.Errorf("totalXP = %d, want 60", stats.TotalXP)
	}
	if stats.OverallAccuracy != 75 {
		t.Errorf("overallAccuracy = %v, want 75", stats.OverallAccuracy)
	}
}
