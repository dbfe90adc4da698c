package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Entity() EntityRepository
	Secretariat() SecretariatRepository
	Department() DepartmentRepository
	Division() DivisionRepository
	Service() ServiceRepository
	Case() CaseRepository

	Close() error
}
