package log

// Common field names for structured logging
const (
	FieldComponent          = "component"
	FieldError              = "error"
	FieldOperation          = "operation"
	FieldChildID            = "child_id"
	FieldChildName          = "child_name"
	FieldDays               = "days"
	FieldCurrentBalance     = "current_balance"
	FieldExcludedActivities = "excluded_activities"
	FieldExcludedExpenses   = "excluded_expenses"
	FieldTimezone           = "timezone"
	FieldBackend            = "backend"
	FieldQueue              = "queue"
	FieldBatchID            = "batch_id"
	FieldRequestID          = "request_id"
	FieldDuration           = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentImport  = "import"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpCompute  = "compute"
	OpRefresh  = "refresh"
	OpImport   = "import"
	OpConsume  = "consume"
	OpPublish  = "publish"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithChild adds child identification fields
func (f LogFields) WithChild(id int64, name string) LogFields {
	f[FieldChildID] = id
	if name != "" {
		f[FieldChildName] = name
	}
	return f
}

// WithLedger adds ledger summary fields
func (f LogFields) WithLedger(days int, current int64) LogFields {
	f[FieldDays] = days
	f[FieldCurrentBalance] = current
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
