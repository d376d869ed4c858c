package service

import (
	"context"
	"sort"
	"time"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the mongo implementations' behavior:
// soft-delete flags, listing order, ownership filters.

type fakeStudentRepo struct {
	students map[primitive.ObjectID]*domain.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[primitive.ObjectID]*domain.Student{}}
}

func (r *fakeStudentRepo) Create(_ context.Context, student *domain.Student) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	st := *student
	st.ID = id
	st.Active = true
	st.CreatedAt = time.Now()
	st.UpdatedAt = st.CreatedAt
	r.students[id] = &st
	return id, nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Student, error) {
	st, ok := r.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *st
	return &copied, nil
}

func (r *fakeStudentRepo) GetByEmail(_ context.Context, email string) (*domain.Student, error) {
	for _, st := range r.students {
		if st.Email == email && st.Active {
			copied := *st
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeStudentRepo) ListActiveByTrainer(_ context.Context, trainerID primitive.ObjectID) ([]domain.Student, error) {
	var out []domain.Student
	for _, st := range r.students {
		if st.TrainerID == trainerID && st.Active {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, student *domain.Student) error {
	if _, ok := r.students[student.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *student
	copied.UpdatedAt = time.Now()
	r.students[student.ID] = &copied
	return nil
}

func (r *fakeStudentRepo) SetActive(_ context.Context, id, trainerID primitive.ObjectID, active bool) error {
	st, ok := r.students[id]
	if !ok || st.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	st.Active = active
	st.UpdatedAt = time.Now()
	return nil
}

type fakePlanRepo struct {
	plans map[primitive.ObjectID]*domain.WorkoutPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[primitive.ObjectID]*domain.WorkoutPlan{}}
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	p := *plan
	p.ID = id
	p.Active = true
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.plans[id] = &p
	return id, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePlanRepo) ListActiveByTrainer(_ context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		if p.TrainerID == trainerID && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) ListActiveByStudent(_ context.Context, studentID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		if p.StudentID == studentID && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) Update(_ context.Context, plan *domain.WorkoutPlan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *plan
	r.plans[plan.ID] = &copied
	return nil
}

func (r *fakePlanRepo) SetActive(_ context.Context, id, trainerID primitive.ObjectID, active bool) error {
	p, ok := r.plans[id]
	if !ok || p.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	p.Active = active
	return nil
}

type fakePlanExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.PlanExercise
	seq       int
}

func newFakePlanExerciseRepo() *fakePlanExerciseRepo {
	return &fakePlanExerciseRepo{exercises: map[primitive.ObjectID]*domain.PlanExercise{}}
}

func (r *fakePlanExerciseRepo) Create(_ context.Context, pe *domain.PlanExercise) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	copied := *pe
	copied.ID = id
	r.seq++
	copied.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	r.exercises[id] = &copied
	return id, nil
}

func (r *fakePlanExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PlanExercise, error) {
	pe, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *pe
	return &copied, nil
}

func (r *fakePlanExerciseRepo) ListByPlan(_ context.Context, planID primitive.ObjectID) ([]domain.PlanExercise, error) {
	var out []domain.PlanExercise
	for _, pe := range r.exercises {
		if pe.PlanID == planID {
			out = append(out, *pe)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakePlanExerciseRepo) Update(_ context.Context, pe *domain.PlanExercise) error {
	if _, ok := r.exercises[pe.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *pe
	r.exercises[pe.ID] = &copied
	return nil
}

func (r *fakePlanExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: map[primitive.ObjectID]*domain.Exercise{}}
}

func (r *fakeExerciseRepo) Create(_ context.Context, ex *domain.Exercise) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	copied := *ex
	copied.ID = id
	r.exercises[id] = &copied
	return id, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *ex
	return &copied, nil
}

func (r *fakeExerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, ex := range r.exercises {
		out = append(out, *ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, ex *domain.Exercise) error {
	if _, ok := r.exercises[ex.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *ex
	r.exercises[ex.ID] = &copied
	return nil
}

type fakeProgressRepo struct {
	records map[primitive.ObjectID]*domain.ProgressRecord
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: map[primitive.ObjectID]*domain.ProgressRecord{}}
}

func (r *fakeProgressRepo) Create(_ context.Context, record *domain.ProgressRecord) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	copied := *record
	copied.ID = id
	copied.CreatedAt = time.Now()
	r.records[id] = &copied
	return id, nil
}

func (r *fakeProgressRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgressRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *fakeProgressRepo) ListByStudent(_ context.Context, studentID primitive.ObjectID) ([]domain.ProgressRecord, error) {
	var out []domain.ProgressRecord
	for _, rec := range r.records {
		if rec.StudentID == studentID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordDate.Before(out[j].RecordDate) })
	return out, nil
}

func (r *fakeProgressRepo) Update(_ context.Context, record *domain.ProgressRecord) error {
	if _, ok := r.records[record.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

type fakeExecutionRepo struct {
	logs []*domain.ExecutionLog
}

func newFakeExecutionRepo() *fakeExecutionRepo {
	return &fakeExecutionRepo{}
}

func (r *fakeExecutionRepo) Create(_ context.Context, entry *domain.ExecutionLog) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	copied := *entry
	copied.ID = id
	if copied.PerformedAt.IsZero() {
		copied.PerformedAt = time.Now()
	}
	r.logs = append(r.logs, &copied)
	return id, nil
}

func (r *fakeExecutionRepo) ListByStudent(_ context.Context, studentID primitive.ObjectID) ([]domain.ExecutionLog, error) {
	var out []domain.ExecutionLog
	for _, l := range r.logs {
		if l.StudentID == studentID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PerformedAt.After(out[j].PerformedAt) })
	return out, nil
}

func (r *fakeExecutionRepo) ListByPlanExercise(_ context.Context, planExerciseID primitive.ObjectID) ([]domain.ExecutionLog, error) {
	var out []domain.ExecutionLog
	for _, l := range r.logs {
		if l.PlanExerciseID == planExerciseID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PerformedAt.After(out[j].PerformedAt) })
	return out, nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.RepositoryError("duplicate email")
		}
	}
	id := primitive.NewObjectID()
	copied := *user
	copied.ID = id
	copied.CreatedAt = time.Now()
	r.users[id] = &copied
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}
