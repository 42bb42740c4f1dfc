package handlers

// AppHandlers holds all application handlers.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	PaymentHandler  *PaymentHandler
	CourseHandler   *CourseHandler
	WellnessHandler *WellnessHandler
	ChatHandler     *ChatHandler
}
