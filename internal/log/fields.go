package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldExpenseID  = "expense_id"
	FieldCategory   = "category"
	FieldAmount     = "amount_cents"
	FieldDate       = "date"
	FieldStreak     = "streak"
	FieldBadge      = "badge"
	FieldGoal       = "goal"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentExpense = "expense"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentAdvice  = "advice"
	ComponentAuth    = "auth"
)
