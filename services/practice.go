// services/practice.go
package services

import (
	"errors"
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

// PracticeService drives the session lifecycle: strategy-weighted question
// selection on create, write-once answer submission, and the completion
// handoff into the progression engine.
type PracticeService struct {
	context.DefaultService

	sqlSvc         *PostgresService
	preferenceSvc  *PreferenceService
	progressionSvc *ProgressionService
	monitoringSvc  *MonitoringService

	contentRepo *repositories.ContentRepository
	sessionRepo *repositories.SessionRepository

	sampler *selection.Sampler
}

const PRACTICE_SVC = "practice_svc"

func (svc PracticeService) Id() string {
	return PRACTICE_SVC
}

func (svc *PracticeService) Configure(ctx *context.Context) error {
	svc.sampler = selection.NewSampler(nil)
	return svc.DefaultService.Configure(ctx)
}

func (svc *PracticeService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.preferenceSvc = svc.Service(PREFERENCE_SVC).(*PreferenceService)
	svc.progressionSvc = svc.Service(PROGRESSION_SVC).(*ProgressionService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	db := svc.sqlSvc.Db()
	svc.contentRepo = repositories.NewContentRepository(db)
	svc.sessionRepo = repositories.NewSessionRepository(db)
	return nil
}

// CreateSession assembles a question set for the user and opens a new
// in_progress session around it. Any prior in_progress session is abandoned
// first, so a user never holds two live sessions.
func (svc *PracticeService) CreateSession(userID string, req dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	prefs, err := svc.preferenceSvc.Resolve(userID)
	if err != nil {
		return nil, err
	}

	strategyName := req.Strategy
	if strategyName == "" {
		strategyName = prefs.DefaultStrategy
	}
	if strategyName == shared.StrategyAdaptive && !prefs.DifficultyAdaptationEnabled {
		strategyName = shared.StrategyBalanced
	}

	count := shared.DefaultQuestionCount
	if req.Count != nil {
		count = *req.Count
	}

	progress, err := svc.progressionSvc.TopicAccuracies(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	strategy := selection.Resolve(strategyName, prefs, progress, req.SubjectIDs)
	if req.TopicID != "" {
		strategy.Filter.TopicIDs = []string{req.TopicID}
	}

	avoidDays := prefs.AvoidRecentQuestionsDays
	candidates, err := svc.contentRepo.FetchCandidates(userID, strategy.Filter, prefs.ExcludedSubjectIDs, avoidDays, count*shared.CandidateFetchMultiplier)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if len(candidates) == 0 {
		if svc.monitoringSvc != nil {
			svc.monitoringSvc.IncContentExhausted()
		}
		return nil, shared.NewContentExhaustedError(nil, "No eligible questions for the requested session")
	}
	if len(candidates) < 2*count {
		if svc.monitoringSvc != nil {
			svc.monitoringSvc.IncPoolPressure()
		}
		log.WithFields(log.Fields{
			"userID":   userID,
			"strategy": strategy.Name,
			"pool":     len(candidates),
			"want":     count,
		}).Warn("Candidate pool under pressure")
	}

	weighted := make([]selection.WeightedCandidate, len(candidates))
	for i, c := range candidates {
		weighted[i] = selection.WeightedCandidate{Candidate: c, Weight: strategy.Weight(c)}
	}
	drawn := svc.sampler.Sample(weighted, count)

	if err := svc.sessionRepo.AbandonActiveSessions(userID); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	session := &model.PracticeSession{
		UserID:         userID,
		Strategy:       strategy.Name,
		Status:         shared.SessionInProgress,
		TotalQuestions: len(drawn),
		StartedAt:      time.Now(),
	}
	questions := make([]model.SessionQuestion, len(drawn))
	for i, wc := range drawn {
		questions[i] = model.SessionQuestion{
			QuestionID: wc.Question.ID,
			Order:      i + 1,
		}
	}

	created, err := svc.sessionRepo.CreateSession(session, questions)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if svc.monitoringSvc != nil {
		svc.monitoringSvc.IncSessionsCreated(strategy.Name)
	}

	return svc.sessionResponse(created, true)
}

// SubmitAnswer records one write-once answer and updates the live session
// counters atomically.
func (svc *PracticeService) SubmitAnswer(userID, sessionID string, req dto.SubmitAnswerRequest) (*dto.AnswerResponse, error) {
	session, err := svc.getOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != shared.SessionInProgress {
		return nil, shared.NewInvalidStateError(nil, "Session is no longer accepting answers")
	}

	inSession, err := svc.sessionRepo.IsSessionQuestion(sessionID, req.QuestionID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if !inSession {
		return nil, shared.NewNotFoundError(nil, "Question is not part of this session")
	}

	correctOption, err := svc.contentRepo.GetCorrectOption(req.QuestionID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	isCorrect := req.SelectedOptionID != nil && *req.SelectedOptionID == correctOption.ID

	answer := &model.SessionAnswer{
		SessionID:        sessionID,
		QuestionID:       req.QuestionID,
		SelectedOptionID: req.SelectedOptionID,
		IsCorrect:        isCorrect,
		TimeSpentSeconds: req.TimeSpentSeconds,
		AnsweredAt:       time.Now(),
	}

	err = svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		sessionRepo := svc.sessionRepo.WithTx(tx)
		contentRepo := svc.contentRepo.WithTx(tx)

		if _, err := sessionRepo.CreateAnswer(answer); err != nil {
			return err
		}
		if err := sessionRepo.ApplyAnswerToCounters(sessionID, isCorrect, req.TimeSpentSeconds); err != nil {
			return err
		}
		return contentRepo.RecordQuestionSeen(userID, req.QuestionID, isCorrect)
	})
	if err != nil {
		// The unique index on (session_id, question_id) is the write-once
		// arbiter; concurrent submissions lose here, not on a pre-check.
		if repositories.IsDuplicateKey(err) {
			return nil, shared.NewDuplicateAnswerError(err, "Question already answered in this session")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	if svc.monitoringSvc != nil {
		svc.monitoringSvc.IncAnswersSubmitted(isCorrect)
	}

	return &dto.AnswerResponse{
		ID:               answer.ID,
		SessionID:        answer.SessionID,
		QuestionID:       answer.QuestionID,
		SelectedOptionID: answer.SelectedOptionID,
		IsCorrect:        answer.IsCorrect,
		CorrectOptionID:  correctOption.ID,
		TimeSpentSeconds: answer.TimeSpentSeconds,
		AnsweredAt:       answer.AnsweredAt,
	}, nil
}

// CompleteSession finalizes the session and applies progression in one
// transaction. Completing an already-completed session is a no-op returning
// the stored result.
func (svc *PracticeService) CompleteSession(userID, sessionID string) (*dto.CompleteSessionResponse, error) {
	session, err := svc.getOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return svc.completeLoadedSession(userID, session)
}

func (svc *PracticeService) completeLoadedSession(userID string, session *model.PracticeSession) (*dto.CompleteSessionResponse, error) {
	switch session.Status {
	case shared.SessionCompleted:
		return svc.storedCompletionResponse(userID, session)
	case shared.SessionAbandoned:
		return nil, shared.NewInvalidStateError(nil, "Session was abandoned")
	}

	xpEarned := session.CorrectAnswers*shared.XPPerCorrectAnswer +
		(session.TimeSpentSeconds/60)*shared.XPPerPracticeMinute

	accuracy := 0.0
	if session.QuestionsAttempted > 0 {
		accuracy = math.Round(10000.0*float64(session.CorrectAnswers)/float64(session.QuestionsAttempted)) / 100
	}
	completedAt := time.Now()

	var result *CompletionResult
	won := false
	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		sessionRepo := svc.sessionRepo.WithTx(tx)

		finalized, err := sessionRepo.FinalizeSession(session.ID, xpEarned, accuracy, completedAt)
		if err != nil {
			return err
		}
		if !finalized {
			return nil
		}
		won = true

		session.Status = shared.SessionCompleted
		session.XPEarned = xpEarned
		session.Accuracy = accuracy
		session.CompletedAt = &completedAt

		answers, err := sessionRepo.GetSessionAnswers(session.ID)
		if err != nil {
			return err
		}

		result, err = svc.progressionSvc.ApplyCompletion(tx, session, answers)
		return err
	})
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if !won {
		// Lost the race to a concurrent completion; serve the stored result
		// the winner wrote.
		stored, err := svc.getOwnedSession(userID, session.ID)
		if err != nil {
			return nil, err
		}
		return svc.completeLoadedSession(userID, stored)
	}
	if svc.monitoringSvc != nil {
		svc.monitoringSvc.IncSessionsCompleted()
	}

	resp, err := svc.sessionResponse(session, false)
	if err != nil {
		return nil, err
	}
	out := &dto.CompleteSessionResponse{
		Session:        *resp,
		UnlockedBadges: []dto.BadgeResponse{},
	}
	if result != nil {
		out.LeveledUp = result.LeveledUp
		out.NewLevel = result.NewLevel
		out.CurrentStreak = result.CurrentStreak
		for _, badge := range result.UnlockedBadges {
			out.UnlockedBadges = append(out.UnlockedBadges, dto.BadgeResponse{
				ID:          badge.ID,
				Name:        badge.Name,
				Description: badge.Description,
				IconURL:     badge.IconURL,
				XPReward:    badge.XPReward,
				UnlockedAt:  &completedAt,
			})
		}
	}
	return out, nil
}

// storedCompletionResponse reports an already-completed session from its
// stored row, with the user's current progression attached.
func (svc *PracticeService) storedCompletionResponse(userID string, session *model.PracticeSession) (*dto.CompleteSessionResponse, error) {
	resp, err := svc.sessionResponse(session, false)
	if err != nil {
		return nil, err
	}
	stats, err := svc.progressionSvc.GetUserStats(userID)
	if err != nil {
		return nil, err
	}
	return &dto.CompleteSessionResponse{
		Session:        *resp,
		NewLevel:       stats.Level,
		CurrentStreak:  stats.CurrentStreak,
		UnlockedBadges: []dto.BadgeResponse{},
	}, nil
}

// GetSession returns one of the caller's sessions with its question set.
func (svc *PracticeService) GetSession(userID, sessionID string) (*dto.SessionResponse, error) {
	session, err := svc.getOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return svc.sessionResponse(session, true)
}

// GetActiveSession returns the caller's in_progress session, or nil when
// there is none.
func (svc *PracticeService) GetActiveSession(userID string) (*dto.SessionResponse, error) {
	session, err := svc.sessionRepo.GetActiveSession(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if session == nil {
		return nil, nil
	}
	return svc.sessionResponse(session, true)
}

func (svc *PracticeService) getOwnedSession(userID, sessionID string) (*model.PracticeSession, error) {
	session, err := svc.sessionRepo.GetSession(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Session not found")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}
	if session.UserID != userID {
		return nil, shared.NewNotFoundError(nil, "Session not found")
	}
	return session, nil
}

// sessionResponse maps a session row to its DTO, optionally loading the
// question set. Answer options never expose the correct flag.
func (svc *PracticeService) sessionResponse(session *model.PracticeSession, withQuestions bool) (*dto.SessionResponse, error) {
	resp := &dto.SessionResponse{
		ID:                 session.ID,
		UserID:             session.UserID,
		Strategy:           session.Strategy,
		Status:             session.Status,
		TotalQuestions:     session.TotalQuestions,
		QuestionsAttempted: session.QuestionsAttempted,
		CorrectAnswers:     session.CorrectAnswers,
		WrongAnswers:       session.WrongAnswers,
		Accuracy:           session.Accuracy,
		XPEarned:           session.XPEarned,
		TimeSpentSeconds:   session.TimeSpentSeconds,
		StartedAt:          session.StartedAt,
		CompletedAt:        session.CompletedAt,
	}
	if !withQuestions {
		return resp, nil
	}

	sessionQuestions, err := svc.sessionRepo.GetSessionQuestions(session.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	questionIDs := make([]string, len(sessionQuestions))
	for i, sq := range sessionQuestions {
		questionIDs[i] = sq.QuestionID
	}
	options, err := svc.contentRepo.GetOptionsForQuestions(questionIDs)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	optionsByQuestion := make(map[string][]dto.AnswerOptionResponse)
	for _, opt := range options {
		optionsByQuestion[opt.QuestionID] = append(optionsByQuestion[opt.QuestionID], dto.AnswerOptionResponse{
			ID:    opt.ID,
			Text:  opt.Text,
			Order: opt.Order,
		})
	}

	resp.Questions = make([]dto.SessionQuestionResponse, len(sessionQuestions))
	for i, sq := range sessionQuestions {
		resp.Questions[i] = dto.SessionQuestionResponse{
			ID:         sq.QuestionID,
			TopicID:    sq.Question.TopicID,
			Text:       sq.Question.Text,
			Difficulty: sq.Question.Difficulty,
			Options:    optionsByQuestion[sq.QuestionID],
		}
	}
	return resp, nil
}
