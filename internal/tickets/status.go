package tickets

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusUsed      Status = "USED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)
