package mocks

// MockMetrics is a mock implementation of the domain metrics recorders for testing
type MockMetrics struct {
	OperationsCreated    map[string]int
	StatusUpdates        map[string]int
	AuthorizationDenials map[string]int
	FormSubmissions      map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		OperationsCreated:    make(map[string]int),
		StatusUpdates:        make(map[string]int),
		AuthorizationDenials: make(map[string]int),
		FormSubmissions:      make(map[string]int),
	}
}

func (m *MockMetrics) RecordOperationCreated(opType string) {
	m.OperationsCreated[opType]++
}

func (m *MockMetrics) RecordStatusUpdate(status string) {
	m.StatusUpdates[status]++
}

func (m *MockMetrics) RecordAuthorizationDenial(action string) {
	m.AuthorizationDenials[action]++
}

func (m *MockMetrics) RecordFormSubmission(result string) {
	m.FormSubmissions[result]++
}
