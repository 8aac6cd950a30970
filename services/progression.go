// services/progression.go
package services

import (
	"fmt"
	"math"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/adaptiq-labs/practice_api/dto"
	"github.com/adaptiq-labs/practice_api/model"
	"github.com/adaptiq-labs/practice_api/selection"
	"github.com/adaptiq-labs/practice_api/services/repositories"
	"github.com/adaptiq-labs/practice_api/shared"
)

// ProgressionService owns everything that happens to a user's long-lived
// progress when a session completes: XP and level, the daily streak, per-topic
// mastery, and badge unlocks. ApplyCompletion runs inside the completion
// transaction so a crash never leaves XP granted without the session closed.
type ProgressionService struct {
	context.DefaultService

	sqlSvc        *PostgresService
	monitoringSvc *MonitoringService

	statsRepo    *repositories.StatsRepository
	contentRepo  *repositories.ContentRepository
	sessionRepo  *repositories.SessionRepository
	analyticRepo *repositories.AnalyticRepository
}

const PROGRESSION_SVC = "progression_svc"

func (svc ProgressionService) Id() string {
	return PROGRESSION_SVC
}

func (svc *ProgressionService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressionService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	db := svc.sqlSvc.Db()
	svc.statsRepo = repositories.NewStatsRepository(db)
	svc.contentRepo = repositories.NewContentRepository(db)
	svc.sessionRepo = repositories.NewSessionRepository(db)
	svc.analyticRepo = repositories.NewAnalyticRepository(db)
	return nil
}

// CompletionResult is what the completion endpoint reports beyond the session
// row itself.
type CompletionResult struct {
	LeveledUp      bool
	NewLevel       int
	CurrentStreak  int
	UnlockedBadges []model.Badge
}

// xpRequiredForLevel is the XP cost of moving from the given level to the
// next one: floor(100 * 1.15^(level-1)).
func xpRequiredForLevel(level int) int {
	return int(math.Floor(shared.BaseLevelXP * math.Pow(shared.LevelXPGrowth, float64(level-1))))
}

// applyXP adds the delta and walks the level curve until the remaining XP no
// longer covers the next level. Reports whether at least one level was gained.
func applyXP(stats *model.UserStats, delta int) bool {
	stats.TotalXP += delta

	leveled := false
	cumulative := 0
	level := 1
	for {
		cost := xpRequiredForLevel(level)
		if stats.TotalXP < cumulative+cost {
			stats.XPToNextLevel = cumulative + cost - stats.TotalXP
			break
		}
		cumulative += cost
		level++
	}

	if level > stats.Level {
		leveled = true
	}
	stats.Level = level
	return leveled
}

// applyStreak advances the daily streak given whether the user already has
// activity rows for today and yesterday. A same-day completion leaves the
// streak untouched.
func applyStreak(stats *model.UserStats, activeToday, activeYesterday bool, now time.Time) {
	if !activeToday {
		if activeYesterday {
			stats.CurrentStreak++
		} else {
			stats.CurrentStreak = 1
		}
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastActivityDate = &now
}

// ApplyCompletion folds a just-finalized session into the user's progress.
// The caller passes the transaction the session was finalized in.
func (svc *ProgressionService) ApplyCompletion(tx *gorm.DB, session *model.PracticeSession, answers []model.SessionAnswer) (*CompletionResult, error) {
	statsRepo := svc.statsRepo.WithTx(tx)
	contentRepo := svc.contentRepo.WithTx(tx)
	sessionRepo := svc.sessionRepo.WithTx(tx)

	stats, err := statsRepo.GetOrCreateStats(session.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := now.Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)

	todayRow, err := statsRepo.GetStreakDay(session.UserID, today)
	if err != nil {
		return nil, err
	}
	yesterdayRow, err := statsRepo.GetStreakDay(session.UserID, yesterday)
	if err != nil {
		return nil, err
	}

	applyStreak(stats, todayRow != nil, yesterdayRow != nil, now)

	if err := statsRepo.AccumulateStreakDay(session.UserID, today, 1, session.QuestionsAttempted, session.XPEarned); err != nil {
		return nil, err
	}

	stats.TotalQuizzesCompleted++
	stats.TotalQuestionsAttempted += session.QuestionsAttempted
	stats.TotalCorrectAnswers += session.CorrectAnswers
	if stats.TotalQuestionsAttempted > 0 {
		stats.OverallAccuracy = math.Round(10000.0*float64(stats.TotalCorrectAnswers)/float64(stats.TotalQuestionsAttempted)) / 100
	}
	stats.TotalPracticeTimeMinutes += session.TimeSpentSeconds / 60

	leveled := applyXP(stats, session.XPEarned)

	if err := svc.accumulateTopicProgress(statsRepo, contentRepo, session.UserID, answers, now); err != nil {
		return nil, err
	}

	unlocked := svc.evaluateBadges(statsRepo, sessionRepo, stats, session, now)
	for _, badge := range unlocked {
		if badge.XPReward > 0 {
			if applyXP(stats, badge.XPReward) {
				leveled = true
			}
		}
	}

	if err := statsRepo.SaveStats(stats); err != nil {
		return nil, err
	}

	return &CompletionResult{
		LeveledUp:      leveled,
		NewLevel:       stats.Level,
		CurrentStreak:  stats.CurrentStreak,
		UnlockedBadges: unlocked,
	}, nil
}

// accumulateTopicProgress groups the session's answers by the answered
// question's topic and folds each group into the user's mastery row.
func (svc *ProgressionService) accumulateTopicProgress(statsRepo *repositories.StatsRepository, contentRepo *repositories.ContentRepository, userID string, answers []model.SessionAnswer, now time.Time) error {
	if len(answers) == 0 {
		return nil
	}

	questionIDs := make([]string, 0, len(answers))
	for _, a := range answers {
		questionIDs = append(questionIDs, a.QuestionID)
	}

	questions, err := contentRepo.GetQuestionsByIDs(questionIDs)
	if err != nil {
		return err
	}
	topicByQuestion := make(map[string]string, len(questions))
	for _, q := range questions {
		topicByQuestion[q.ID] = q.TopicID
	}

	type tally struct {
		attempted int
		correct   int
	}
	byTopic := make(map[string]*tally)
	for _, a := range answers {
		topicID, ok := topicByQuestion[a.QuestionID]
		if !ok {
			continue
		}
		t := byTopic[topicID]
		if t == nil {
			t = &tally{}
			byTopic[topicID] = t
		}
		t.attempted++
		if a.IsCorrect {
			t.correct++
		}
	}

	for topicID, t := range byTopic {
		if err := statsRepo.AccumulateTopicProgress(userID, topicID, t.attempted, t.correct, now); err != nil {
			return err
		}
	}
	return nil
}

// evaluateBadges checks every active, still-locked badge against the user's
// state. Badge failures are logged and skipped; a broken badge definition
// must never block session completion.
func (svc *ProgressionService) evaluateBadges(statsRepo *repositories.StatsRepository, sessionRepo *repositories.SessionRepository, stats *model.UserStats, session *model.PracticeSession, now time.Time) []model.Badge {
	badges, err := statsRepo.GetActiveBadges()
	if err != nil {
		log.WithError(err).Error("Failed to load active badges")
		return nil
	}
	unlockedIDs, err := statsRepo.GetUnlockedBadgeIDs(session.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to load unlocked badges")
		return nil
	}

	var unlocked []model.Badge
	for _, badge := range badges {
		if unlockedIDs[badge.ID] {
			continue
		}

		met, progress, err := svc.evaluateCriteria(sessionRepo, badge.UnlockCriteria, stats, session)
		if err != nil {
			log.WithError(err).WithField("badgeID", badge.ID).Error("Badge evaluation failed")
			continue
		}

		if met {
			if err := statsRepo.UnlockBadge(session.UserID, badge.ID, now); err != nil {
				log.WithError(err).WithField("badgeID", badge.ID).Error("Failed to unlock badge")
				continue
			}
			if svc.monitoringSvc != nil {
				svc.monitoringSvc.IncBadgesUnlocked()
			}
			unlocked = append(unlocked, badge)
			continue
		}

		if err := statsRepo.UpdateBadgeProgress(session.UserID, badge.ID, progress); err != nil {
			log.WithError(err).WithField("badgeID", badge.ID).Warn("Failed to update badge progress")
		}
	}
	return unlocked
}

// evaluateCriteria is the closed switch over criteria types. Returns whether
// the criteria are met and, if not, how far along the user is.
func (svc *ProgressionService) evaluateCriteria(sessionRepo *repositories.SessionRepository, c model.BadgeCriteria, stats *model.UserStats, session *model.PracticeSession) (bool, float64, error) {
	switch c.Type {
	case shared.BadgeTypeStreak:
		if c.Days <= 0 {
			return false, 0, fmt.Errorf("streak badge with non-positive days: %d", c.Days)
		}
		return stats.CurrentStreak >= c.Days, progressPct(stats.CurrentStreak, c.Days), nil

	case shared.BadgeTypeAccuracy:
		accuracy := session.Accuracy
		attempted := session.QuestionsAttempted
		if c.Lifetime {
			accuracy = stats.OverallAccuracy
			attempted = stats.TotalQuestionsAttempted
		}
		if attempted < c.MinQuestions {
			return false, progressPct(attempted, c.MinQuestions), nil
		}
		return accuracy >= c.Percentage, progressPct(int(accuracy), int(c.Percentage)), nil

	case shared.BadgeTypeQuizCount:
		if c.Count <= 0 {
			return false, 0, fmt.Errorf("quiz_count badge with non-positive count: %d", c.Count)
		}
		completed := stats.TotalQuizzesCompleted
		if !c.Lifetime {
			// Scope is the completion event itself: exactly one session.
			completed = 1
		}
		return completed >= c.Count, progressPct(completed, c.Count), nil

	case shared.BadgeTypeSubjectMaster:
		if c.SubjectID == "" || c.Count <= 0 {
			return false, 0, fmt.Errorf("subject_master badge missing subject or count")
		}
		completed, err := sessionRepo.CountCompletedSessionsInSubject(session.UserID, c.SubjectID)
		if err != nil {
			return false, 0, err
		}
		return int(completed) >= c.Count, progressPct(int(completed), c.Count), nil

	default:
		return false, 0, fmt.Errorf("unknown badge criteria type: %q", c.Type)
	}
}

func progressPct(current, target int) float64 {
	if target <= 0 {
		return 0
	}
	pct := 100.0 * float64(current) / float64(target)
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*100) / 100
}

// GetUserStats returns the aggregate progress row, creating it on first read.
func (svc *ProgressionService) GetUserStats(userID string) (*dto.UserStatsResponse, error) {
	stats, err := svc.statsRepo.GetOrCreateStats(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return statsToResponse(stats), nil
}

func statsToResponse(stats *model.UserStats) *dto.UserStatsResponse {
	return &dto.UserStatsResponse{
		UserID:                   stats.UserID,
		TotalXP:                  stats.TotalXP,
		Level:                    stats.Level,
		XPToNextLevel:            stats.XPToNextLevel,
		CurrentStreak:            stats.CurrentStreak,
		LongestStreak:            stats.LongestStreak,
		LastActivityDate:         stats.LastActivityDate,
		TotalQuizzesCompleted:    stats.TotalQuizzesCompleted,
		TotalQuestionsAttempted:  stats.TotalQuestionsAttempted,
		TotalCorrectAnswers:      stats.TotalCorrectAnswers,
		OverallAccuracy:          stats.OverallAccuracy,
		TotalPracticeTimeMinutes: stats.TotalPracticeTimeMinutes,
	}
}

// GetTopicProgress returns per-topic mastery rows with topic names joined in.
func (svc *ProgressionService) GetTopicProgress(userID string) ([]dto.TopicProgressResponse, error) {
	rows, err := svc.statsRepo.GetTopicProgressList(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	topicIDs := make([]string, len(rows))
	for i, row := range rows {
		topicIDs[i] = row.TopicID
	}
	topics, err := svc.contentRepo.GetTopicsByIDs(topicIDs)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	names := make(map[string]string, len(topics))
	for _, t := range topics {
		names[t.ID] = t.Name
	}

	out := make([]dto.TopicProgressResponse, len(rows))
	for i, row := range rows {
		out[i] = dto.TopicProgressResponse{
			TopicID:            row.TopicID,
			TopicName:          names[row.TopicID],
			QuestionsAttempted: row.QuestionsAttempted,
			CorrectAnswers:     row.CorrectAnswers,
			Accuracy:           row.Accuracy,
			LastPracticedAt:    row.LastPracticedAt,
		}
	}
	return out, nil
}

// TopicAccuracies feeds the selection strategies.
func (svc *ProgressionService) TopicAccuracies(userID string) ([]selection.TopicAccuracy, error) {
	rows, err := svc.statsRepo.GetTopicProgressList(userID)
	if err != nil {
		return nil, err
	}
	out := make([]selection.TopicAccuracy, len(rows))
	for i, row := range rows {
		out[i] = selection.TopicAccuracy{
			TopicID:            row.TopicID,
			Accuracy:           row.Accuracy,
			QuestionsAttempted: row.QuestionsAttempted,
		}
	}
	return out, nil
}

// GetBadges returns all active badges with the user's unlock state and
// progress overlaid.
func (svc *ProgressionService) GetBadges(userID string) (*dto.BadgeCollectionResponse, error) {
	badges, err := svc.statsRepo.GetActiveBadges()
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	userBadges, err := svc.statsRepo.GetUserBadges(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	byBadge := make(map[string]model.UserBadge, len(userBadges))
	for _, ub := range userBadges {
		byBadge[ub.BadgeID] = ub
	}

	resp := &dto.BadgeCollectionResponse{
		Badges: make([]dto.BadgeResponse, len(badges)),
		Total:  len(badges),
	}
	for i, badge := range badges {
		item := dto.BadgeResponse{
			ID:          badge.ID,
			Name:        badge.Name,
			Description: badge.Description,
			IconURL:     badge.IconURL,
			XPReward:    badge.XPReward,
		}
		if ub, ok := byBadge[badge.ID]; ok {
			item.UnlockedAt = ub.UnlockedAt
			item.ProgressPercentage = ub.ProgressPercentage
			if ub.UnlockedAt != nil {
				resp.Unlocked++
			}
		}
		resp.Badges[i] = item
	}
	return resp, nil
}

// GetStreakCalendar returns the activity rows for one month. Month format is
// "2006-01"; empty means the current month.
func (svc *ProgressionService) GetStreakCalendar(userID, month string) (*dto.StreakCalendarResponse, error) {
	var start time.Time
	if month == "" {
		now := time.Now()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, shared.NewValidationError(err, "Invalid month, expected YYYY-MM", nil)
		}
		start = parsed
	}
	end := start.AddDate(0, 1, 0)

	rows, err := svc.statsRepo.GetStreakDaysInRange(userID, start, end)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	stats, err := svc.statsRepo.GetOrCreateStats(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.StreakCalendarResponse{
		Month:         start.Format("2006-01"),
		Days:          make([]dto.StreakDayResponse, len(rows)),
		CurrentStreak: stats.CurrentStreak,
		LongestStreak: stats.LongestStreak,
	}
	for i, row := range rows {
		resp.Days[i] = dto.StreakDayResponse{
			Date:               row.ActivityDate.Format("2006-01-02"),
			SessionsCompleted:  row.SessionsCompleted,
			QuestionsAttempted: row.QuestionsAttempted,
			XPEarned:           row.XPEarned,
		}
	}
	return resp, nil
}

// GetLeaderboard returns the XP ranking for the given period ("all_time" or
// "weekly") with the caller's own rank attached.
func (svc *ProgressionService) GetLeaderboard(userID, period string, limit int) (*dto.LeaderboardResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var (
		rows []model.UserStats
		err  error
	)
	switch period {
	case "weekly":
		rows, err = svc.analyticRepo.GetWeeklyLeaderboard(limit)
	default:
		period = "all_time"
		rows, err = svc.analyticRepo.GetAllTimeLeaderboard(limit)
	}
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.LeaderboardResponse{
		Period:   period,
		TopUsers: make([]dto.LeaderboardUserResponse, len(rows)),
	}
	for i, row := range rows {
		resp.TopUsers[i] = dto.LeaderboardUserResponse{
			UserID:  row.UserID,
			Level:   row.Level,
			TotalXP: row.TotalXP,
			Rank:    i + 1,
		}
	}

	stats, err := svc.statsRepo.GetOrCreateStats(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	rank, err := svc.analyticRepo.GetUserRank(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	resp.CurrentUser = dto.LeaderboardUserResponse{
		UserID:  stats.UserID,
		Level:   stats.Level,
		TotalXP: stats.TotalXP,
		Rank:    rank,
	}
	return resp, nil
}
