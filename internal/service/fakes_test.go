package service

import (
	"context"
	"sort"
	"sync"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. They implement just enough of the persistence
// contracts to drive the services; uniqueness and upsert behavior mirror the
// real constraints.

type memEmployeeRepo struct {
	mu        sync.Mutex
	employees map[uuid.UUID]model.Employee
}

func newMemEmployeeRepo() *memEmployeeRepo {
	return &memEmployeeRepo{employees: make(map[uuid.UUID]model.Employee)}
}

func (m *memEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	m.employees[employee.ID] = *employee
	return nil
}

func (m *memEmployeeRepo) Update(_ context.Context, employee *model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[employee.ID] = *employee
	return nil
}

func (m *memEmployeeRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.employees, id)
	return nil
}

func (m *memEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (m *memEmployeeRepo) List(_ context.Context, _, _ int) ([]model.Employee, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

type memCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]model.SalaryCategory
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[uuid.UUID]model.SalaryCategory)}
}

func (m *memCategoryRepo) Create(_ context.Context, category *model.SalaryCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.categories[category.ID] = *category
	return nil
}

func (m *memCategoryRepo) Update(_ context.Context, category *model.SalaryCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.ID] = *category
	return nil
}

func (m *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.categories, id)
	return nil
}

func (m *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SalaryCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (m *memCategoryRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.SalaryCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SalaryCategory, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCategoryRepo) List(_ context.Context, _, _ int) ([]model.SalaryCategory, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SalaryCategory, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

type memRuleRepo struct {
	mu    sync.Mutex
	rules map[uuid.UUID]model.SalaryRule
}

func newMemRuleRepo() *memRuleRepo {
	return &memRuleRepo{rules: make(map[uuid.UUID]model.SalaryRule)}
}

func (m *memRuleRepo) Create(_ context.Context, rule *model.SalaryRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	m.rules[rule.ID] = *rule
	return nil
}

func (m *memRuleRepo) Update(_ context.Context, rule *model.SalaryRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = *rule
	return nil
}

func (m *memRuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rules, id)
	return nil
}

func (m *memRuleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SalaryRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (m *memRuleRepo) List(_ context.Context, _, _ int) ([]model.SalaryRule, int64, error) {
	all, err := m.ListAll(context.Background())
	return all, int64(len(all)), err
}

func (m *memRuleRepo) ListAll(_ context.Context) ([]model.SalaryRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SalaryRule, 0, len(m.rules))
	for _, r := range m.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (m *memRuleRepo) CountReferencingCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rules {
		if r.CategoryID == categoryID || (r.AppliesToCategoryID != nil && *r.AppliesToCategoryID == categoryID) {
			n++
		}
	}
	return n, nil
}

func (m *memRuleRepo) CountReferencingRange(_ context.Context, rangeID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rules {
		if r.RangeID != nil && *r.RangeID == rangeID {
			n++
		}
	}
	return n, nil
}

type memRangeRepo struct {
	mu       sync.Mutex
	brackets map[uuid.UUID]model.SalaryRange
}

func newMemRangeRepo() *memRangeRepo {
	return &memRangeRepo{brackets: make(map[uuid.UUID]model.SalaryRange)}
}

func (m *memRangeRepo) Create(_ context.Context, bracket *model.SalaryRange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bracket.ID == uuid.Nil {
		bracket.ID = uuid.New()
	}
	m.brackets[bracket.ID] = *bracket
	return nil
}

func (m *memRangeRepo) Update(_ context.Context, bracket *model.SalaryRange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.brackets[bracket.ID] = *bracket
	return nil
}

func (m *memRangeRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.brackets, id)
	return nil
}

func (m *memRangeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SalaryRange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.brackets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (m *memRangeRepo) ListAll(_ context.Context) ([]model.SalaryRange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SalaryRange, 0, len(m.brackets))
	for _, b := range m.brackets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinAmount.LessThan(out[j].MinAmount) })
	return out, nil
}

func (m *memRangeRepo) FindBracket(_ context.Context, amount decimal.Decimal) (*model.SalaryRange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.brackets {
		if b.Contains(amount) {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memRangeRepo) FindOverlapping(_ context.Context, min decimal.Decimal, max *decimal.Decimal, excludeID *uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.brackets {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		// [min, max) intersects [b.Min, b.Max)
		if max != nil && !b.MinAmount.LessThan(*max) {
			continue
		}
		if b.MaxAmount != nil && !min.LessThan(*b.MaxAmount) {
			continue
		}
		n++
	}
	return n, nil
}

type assignmentKey struct {
	employeeID uuid.UUID
	categoryID uuid.UUID
}

type memAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[assignmentKey]model.CategoryAssignment
}

func newMemAssignmentRepo() *memAssignmentRepo {
	return &memAssignmentRepo{assignments: make(map[assignmentKey]model.CategoryAssignment)}
}

func (m *memAssignmentRepo) Upsert(_ context.Context, assignment *model.CategoryAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertLocked(assignment)
	return nil
}

func (m *memAssignmentRepo) UpsertBatch(_ context.Context, assignments []model.CategoryAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range assignments {
		m.upsertLocked(&assignments[i])
	}
	return nil
}

func (m *memAssignmentRepo) upsertLocked(assignment *model.CategoryAssignment) {
	key := assignmentKey{assignment.EmployeeID, assignment.CategoryID}
	if existing, ok := m.assignments[key]; ok {
		existing.CategoryAmount = assignment.CategoryAmount
		existing.AssignedBy = assignment.AssignedBy
		m.assignments[key] = existing
		return
	}
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	m.assignments[key] = *assignment
}

func (m *memAssignmentRepo) Remove(_ context.Context, employeeID, categoryID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assignments, assignmentKey{employeeID, categoryID})
	return nil
}

func (m *memAssignmentRepo) Find(_ context.Context, employeeID, categoryID uuid.UUID) (*model.CategoryAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[assignmentKey{employeeID, categoryID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (m *memAssignmentRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]model.CategoryAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CategoryAssignment
	for _, a := range m.assignments {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAssignmentRepo) SummaryByKind(_ context.Context) ([]repository.KindSummary, error) {
	return nil, nil
}

type approvalKey struct {
	requestID uuid.UUID
	month     string
}

type memOvertimeRepo struct {
	mu        sync.Mutex
	requests  map[uuid.UUID]model.OvertimeRequest
	approvals map[approvalKey]model.OvertimeApproval
}

func newMemOvertimeRepo() *memOvertimeRepo {
	return &memOvertimeRepo{
		requests:  make(map[uuid.UUID]model.OvertimeRequest),
		approvals: make(map[approvalKey]model.OvertimeApproval),
	}
}

func (m *memOvertimeRepo) CreateRequest(_ context.Context, request *model.OvertimeRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	m.requests[request.ID] = *request
	return nil
}

func (m *memOvertimeRepo) UpdateRequest(_ context.Context, request *model.OvertimeRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[request.ID] = *request
	return nil
}

func (m *memOvertimeRepo) FindRequest(_ context.Context, id uuid.UUID) (*model.OvertimeRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (m *memOvertimeRepo) ListRequests(_ context.Context, status string, _, _ int) ([]model.OvertimeRequest, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.OvertimeRequest
	for _, r := range m.requests {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memOvertimeRepo) UpsertApproval(_ context.Context, approval *model.OvertimeApproval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := approvalKey{approval.OvertimeRequestID, approval.Month}
	if existing, ok := m.approvals[key]; ok {
		existing.CalculatedAmount = approval.CalculatedAmount
		existing.ApprovedBy = approval.ApprovedBy
		existing.ApprovedAt = approval.ApprovedAt
		m.approvals[key] = existing
		return nil
	}
	if approval.ID == uuid.Nil {
		approval.ID = uuid.New()
	}
	m.approvals[key] = *approval
	return nil
}

func (m *memOvertimeRepo) SumApprovedForMonth(_ context.Context, employeeID uuid.UUID, month string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for key, a := range m.approvals {
		if key.month == month && a.EmployeeID == employeeID {
			total = total.Add(a.CalculatedAmount)
		}
	}
	return total, nil
}

func (m *memOvertimeRepo) ListApprovalsByMonth(_ context.Context, month string) ([]model.OvertimeApproval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.OvertimeApproval
	for key, a := range m.approvals {
		if key.month == month {
			out = append(out, a)
		}
	}
	return out, nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func newMemAuditRepo() *memAuditRepo {
	return &memAuditRepo{}
}

func (m *memAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.AuditLog(nil), m.entries...), int64(len(m.entries)), nil
}

// passthroughTx runs the function directly; the fakes are already atomic.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
