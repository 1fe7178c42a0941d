package gateway

// Category нормализованная категория исхода платежа.
type Category string

const (
	CategorySuccess          Category = "success"
	CategoryInsufficient     Category = "insufficient-funds"
	CategoryNotEnrolled      Category = "account-not-enrolled"
	CategoryAccountLocked    Category = "account-locked"
	CategoryExpiredSession   Category = "expired-session"
	CategoryAuthFailureLimit Category = "authentication-failure-limit"
	CategoryUserCancelled    Category = "user-cancelled"
	CategoryDailyLimit       Category = "daily-limit-exceeded"
	CategoryMaintenance      Category = "gateway-maintenance"
	CategoryUnspecified      Category = "unspecified"
)

// Outcome нормализованный исход по коду ответа шлюза.
type Outcome struct {
	Success  bool
	Category Category
	Message  string
}

// ResponseCodeSuccess код успешной транзакции шлюза.
const ResponseCodeSuccess = "00"

var outcomes = map[string]Outcome{
	"00": {Success: true, Category: CategorySuccess, Message: "transaction successful"},
	"51": {Success: false, Category: CategoryInsufficient, Message: "insufficient funds"},
	"09": {Success: false, Category: CategoryNotEnrolled, Message: "account not enrolled for online payments"},
	"10": {Success: false, Category: CategoryAuthFailureLimit, Message: "authentication failed too many times"},
	"11": {Success: false, Category: CategoryExpiredSession, Message: "payment session expired"},
	"12": {Success: false, Category: CategoryAccountLocked, Message: "account is locked"},
	"24": {Success: false, Category: CategoryUserCancelled, Message: "cancelled by user"},
	"65": {Success: false, Category: CategoryDailyLimit, Message: "daily transaction limit exceeded"},
	"75": {Success: false, Category: CategoryMaintenance, Message: "bank under maintenance"},
	"99": {Success: false, Category: CategoryUnspecified, Message: "unspecified error"},
}

// Resolve возвращает нормализованный исход по коду ответа шлюза. Неизвестный
// код никогда не трактуется как успех.
func Resolve(code string) Outcome {
	if outcome, ok := outcomes[code]; ok {
		return outcome
	}
	return Outcome{Success: false, Category: CategoryUnspecified, Message: "unrecognized gateway response code " + code}
}
