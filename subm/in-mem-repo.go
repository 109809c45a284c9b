package subm

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olimps/backend/subm/domain"
)

// InMemRepo implements SubmRepo and EvalRepo in memory. Used in tests
// and local development without Postgres.
type InMemRepo struct {
	lock sync.Mutex

	subms        map[uuid.UUID]domain.Subm
	evals        map[uuid.UUID]domain.Eval
	events       map[uuid.UUID][]domain.EvalEvent
	achievements []domain.Achievement

	nextEventID int64
	nextAchID   int64
}

func NewInMemRepo() *InMemRepo {
	return &InMemRepo{
		subms:  make(map[uuid.UUID]domain.Subm),
		evals:  make(map[uuid.UUID]domain.Eval),
		events: make(map[uuid.UUID][]domain.EvalEvent),
	}
}

func (m *InMemRepo) StoreSubm(ctx context.Context, subm domain.Subm) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.subms[subm.UUID] = subm
	return nil
}

func (m *InMemRepo) GetSubm(ctx context.Context, submUUID uuid.UUID) (domain.Subm, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	subm, ok := m.subms[submUUID]
	if !ok {
		return domain.Subm{}, domain.ErrSubmNotFound
	}
	return subm, nil
}

func (m *InMemRepo) ListSubms(ctx context.Context, limit int) ([]domain.Subm, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	res := make([]domain.Subm, 0, len(m.subms))
	for _, subm := range m.subms {
		res = append(res, subm)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (m *InMemRepo) CreateEval(ctx context.Context, eval domain.Eval) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.evals[eval.UUID] = eval
	return nil
}

func (m *InMemRepo) SetEvalStage(ctx context.Context, evalUUID uuid.UUID, stage domain.EvalStage) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	eval, ok := m.evals[evalUUID]
	if !ok {
		return domain.ErrEvalNotFound
	}
	eval.Stage = stage
	m.evals[evalUUID] = eval
	return nil
}

func (m *InMemRepo) AppendEvents(ctx context.Context, evalUUID uuid.UUID, events []domain.EvalEvent) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, event := range events {
		m.nextEventID++
		event.ID = m.nextEventID
		event.EvalUUID = evalUUID
		if event.CreatedAt.IsZero() {
			event.CreatedAt = time.Now()
		}
		m.events[evalUUID] = append(m.events[evalUUID], event)
	}
	return nil
}

func (m *InMemRepo) ListEvents(ctx context.Context, evalUUID uuid.UUID) ([]domain.EvalEvent, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	events := m.events[evalUUID]
	res := make([]domain.EvalEvent, len(events))
	copy(res, events)
	return res, nil
}

func (m *InMemRepo) StoreAchievements(ctx context.Context, achievements []domain.Achievement) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, ach := range achievements {
		m.nextAchID++
		ach.ID = m.nextAchID
		if ach.CreatedAt.IsZero() {
			ach.CreatedAt = time.Now()
		}
		m.achievements = append(m.achievements, ach)
	}
	return nil
}

func (m *InMemRepo) ListAchievements(ctx context.Context, evalUUID uuid.UUID) ([]domain.Achievement, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	res := []domain.Achievement{}
	for _, ach := range m.achievements {
		if ach.EvalUUID == evalUUID {
			res = append(res, ach)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].AwardIndex < res[j].AwardIndex
	})
	return res, nil
}

func (m *InMemRepo) OfficialEval(ctx context.Context, submUUID uuid.UUID) (domain.Eval, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.officialEvalLocked(submUUID)
}

func (m *InMemRepo) officialEvalLocked(submUUID uuid.UUID) (domain.Eval, error) {
	var best *domain.Eval
	for _, eval := range m.evals {
		if eval.SubmUUID != submUUID || eval.Stage != domain.EvalStageSuccess {
			continue
		}
		if best == nil || eval.CreatedAt.After(best.CreatedAt) {
			e := eval
			best = &e
		}
	}
	if best == nil {
		return domain.Eval{}, domain.ErrNoOfficialEval
	}
	return *best, nil
}

func (m *InMemRepo) BestAchievement(ctx context.Context, userUUID uuid.UUID, taskShortID string, awardIndex int) (domain.Achievement, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	var best *domain.Achievement
	for _, subm := range m.subms {
		if subm.AuthorUUID != userUUID || subm.TaskShortID != taskShortID {
			continue
		}
		official, err := m.officialEvalLocked(subm.UUID)
		if err != nil {
			continue // no official evaluation contributes nothing
		}
		for i := range m.achievements {
			ach := m.achievements[i]
			if ach.EvalUUID != official.UUID || ach.AwardIndex != awardIndex {
				continue
			}
			if best == nil ||
				ach.Grade > best.Grade ||
				(ach.Grade == best.Grade && ach.CreatedAt.Before(best.CreatedAt)) {
				best = &ach
			}
		}
	}
	if best == nil {
		return domain.Achievement{}, domain.ErrNoAchievement
	}
	return *best, nil
}
