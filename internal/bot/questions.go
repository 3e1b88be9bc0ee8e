package bot

// DefaultQuestions is the questionnaire, fixed for the process lifetime.
// Ordering matters: answers are stored and rendered in this exact order.
var DefaultQuestions = []string{
	"How would you rate the company culture? (1-5)",
	"What do you think about the work environment?",
	"Do you have any suggestions for improvement?",
	"How satisfied are you with your team collaboration? (1-5)",
	"Any additional comments?",
}
