package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps every table behind a single lock so that reference checks and the
// writes they guard happen atomically.
type Memory struct {
	mu sync.RWMutex

	entities     map[int64]*model.Entity
	secretariats map[int64]*model.Secretariat
	departments  map[int64]*model.Department
	divisions    map[int64]*model.Division
	services     map[int64]*model.Service
	cases        map[int64]*model.Case
	nextID       map[string]int64

	entity      *entityRepository
	secretariat *secretariatRepository
	department  *departmentRepository
	division    *divisionRepository
	service     *serviceRepository
	caseRepo    *caseRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	m := &Memory{
		entities:     make(map[int64]*model.Entity),
		secretariats: make(map[int64]*model.Secretariat),
		departments:  make(map[int64]*model.Department),
		divisions:    make(map[int64]*model.Division),
		services:     make(map[int64]*model.Service),
		cases:        make(map[int64]*model.Case),
		nextID:       make(map[string]int64),
	}
	m.entity = &entityRepository{m: m}
	m.secretariat = &secretariatRepository{m: m}
	m.department = &departmentRepository{m: m}
	m.division = &divisionRepository{m: m}
	m.service = &serviceRepository{m: m}
	m.caseRepo = &caseRepository{m: m}
	return m
}

func (m *Memory) Entity() interfaces.EntityRepository {
	return m.entity
}

func (m *Memory) Secretariat() interfaces.SecretariatRepository {
	return m.secretariat
}

func (m *Memory) Department() interfaces.DepartmentRepository {
	return m.department
}

func (m *Memory) Division() interfaces.DivisionRepository {
	return m.division
}

func (m *Memory) Service() interfaces.ServiceRepository {
	return m.service
}

func (m *Memory) Case() interfaces.CaseRepository {
	return m.caseRepo
}

func (m *Memory) Close() error {
	return nil
}

// allocID must be called with mu held
func (m *Memory) allocID(table string) int64 {
	m.nextID[table]++
	return m.nextID[table]
}

func now() time.Time {
	return time.Now().UTC()
}

// sortedIDs returns the keys of a table in ascending order
func sortedIDs[T any](table map[int64]T) []int64 {
	ids := make([]int64, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
