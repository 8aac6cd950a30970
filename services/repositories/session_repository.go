package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaptiq-labs/practice_api/model"
	"github.com/adaptiq-labs/practice_api/shared"
)

// SessionRepository handles practice session and answer persistence.
type SessionRepository struct {
	BaseRepository
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *SessionRepository) WithTx(tx *gorm.DB) *SessionRepository {
	return NewSessionRepository(tx)
}

// CreateSession persists the session together with its sampled question set
// in a single transaction.
func (ds *SessionRepository) CreateSession(session *model.PracticeSession, questions []model.SessionQuestion) (*model.PracticeSession, error) {
	id, _ := uuid.NewV7()
	session.ID = id.String()
	now := time.Now()
	session.StartedAt = now
	session.CreatedAt = now
	session.UpdatedAt = now

	err := ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}

		for i := range questions {
			qid, _ := uuid.NewV7()
			questions[i].ID = qid.String()
			questions[i].SessionID = session.ID
			questions[i].CreatedAt = now
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (ds *SessionRepository) GetSession(id string) (*model.PracticeSession, error) {
	var session model.PracticeSession
	if err := ds.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (ds *SessionRepository) GetActiveSession(userID string) (*model.PracticeSession, error) {
	var session model.PracticeSession
	err := ds.db.Where("user_id = ? AND status = ?", userID, shared.SessionInProgress).
		Order("started_at DESC").First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// AbandonActiveSessions marks every in_progress session of the user as
// abandoned. Called before a new session is created so at most one stays
// active per user.
func (ds *SessionRepository) AbandonActiveSessions(userID string) error {
	return ds.db.Model(&model.PracticeSession{}).
		Where("user_id = ? AND status = ?", userID, shared.SessionInProgress).
		Updates(map[string]interface{}{
			"status":     shared.SessionAbandoned,
			"updated_at": time.Now(),
		}).Error
}

func (ds *SessionRepository) GetSessionQuestions(sessionID string) ([]model.SessionQuestion, error) {
	var questions []model.SessionQuestion
	if err := ds.db.Preload("Question").Where("session_id = ?", sessionID).
		Order("\"order\" ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (ds *SessionRepository) IsSessionQuestion(sessionID, questionID string) (bool, error) {
	var count int64
	err := ds.db.Model(&model.SessionQuestion{}).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		Count(&count).Error
	return count > 0, err
}

func (ds *SessionRepository) GetSessionAnswers(sessionID string) ([]model.SessionAnswer, error) {
	var answers []model.SessionAnswer
	if err := ds.db.Where("session_id = ?", sessionID).
		Order("answered_at ASC").Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (ds *SessionRepository) CreateAnswer(answer *model.SessionAnswer) (*model.SessionAnswer, error) {
	id, _ := uuid.NewV7()
	answer.ID = id.String()
	now := time.Now()
	answer.AnsweredAt = now
	answer.CreatedAt = now

	if err := ds.db.Create(answer).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

// ApplyAnswerToCounters bumps the session counters with store-side increments
// and recomputes accuracy from the stored columns, so concurrent submissions
// for the same session never lose updates.
func (ds *SessionRepository) ApplyAnswerToCounters(sessionID string, isCorrect bool, timeSpentSeconds int) error {
	correctDelta, wrongDelta := 0, 1
	if isCorrect {
		correctDelta, wrongDelta = 1, 0
	}

	err := ds.db.Model(&model.PracticeSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"questions_attempted": gorm.Expr("questions_attempted + 1"),
			"correct_answers":     gorm.Expr("correct_answers + ?", correctDelta),
			"wrong_answers":       gorm.Expr("wrong_answers + ?", wrongDelta),
			"time_spent_seconds":  gorm.Expr("time_spent_seconds + ?", timeSpentSeconds),
			"updated_at":          time.Now(),
		}).Error
	if err != nil {
		return err
	}

	return ds.db.Model(&model.PracticeSession{}).
		Where("id = ? AND questions_attempted > 0", sessionID).
		Update("accuracy", gorm.Expr("ROUND(100.0 * correct_answers / questions_attempted, 2)")).Error
}

// FinalizeSession flips the session to completed. Only an in_progress row is
// touched; the returned flag tells the caller whether this call won the
// transition.
func (ds *SessionRepository) FinalizeSession(sessionID string, xpEarned int, accuracy float64, completedAt time.Time) (bool, error) {
	result := ds.db.Model(&model.PracticeSession{}).
		Where("id = ? AND status = ?", sessionID, shared.SessionInProgress).
		Updates(map[string]interface{}{
			"status":       shared.SessionCompleted,
			"xp_earned":    xpEarned,
			"accuracy":     accuracy,
			"completed_at": completedAt,
			"updated_at":   completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountCompletedSessionsInSubject counts completed sessions containing at
// least one answered question from the subject.
func (ds *SessionRepository) CountCompletedSessionsInSubject(userID, subjectID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.PracticeSession{}).
		Distinct("practice_sessions.id").
		Joins("JOIN session_answers ON session_answers.session_id = practice_sessions.id").
		Joins("JOIN questions ON questions.id = session_answers.question_id").
		Joins("JOIN topics ON topics.id = questions.topic_id").
		Where("practice_sessions.user_id = ? AND practice_sessions.status = ?", userID, shared.SessionCompleted).
		Where("topics.subject_id = ?", subjectID).
		Count(&count).Error
	return count, err
}
