package models

import "math"

// PointsPerQuestion is the score value of one correct answer
const PointsPerQuestion = 10

// QuizOption is one selectable answer
type QuizOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuizQuestion is a multiple choice question with its solution
type QuizQuestion struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Question    string       `json:"question"`
	Options     []QuizOption `json:"options"`
	Answer      string       `json:"answer,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
}

// Quiz is a set of questions on one topic
type Quiz struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []QuizQuestion `json:"questions"`
}

// Public returns a copy without answers and explanations
func (q *Quiz) Public() Quiz {
	public := *q
	public.Questions = make([]QuizQuestion, len(q.Questions))
	for i, question := range q.Questions {
		question.Answer = ""
		question.Explanation = ""
		public.Questions[i] = question
	}
	return public
}

// MaxPoints returns the points for a perfect run
func (q *Quiz) MaxPoints() int {
	return len(q.Questions) * PointsPerQuestion
}

// QuestionResult reports the outcome of one answer
type QuestionResult struct {
	QuestionID  string `json:"question_id"`
	Selected    string `json:"selected"`
	Correct     bool   `json:"correct"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// QuizResult is a graded attempt
type QuizResult struct {
	QuizID     string           `json:"quiz_id"`
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Percentage int              `json:"percentage"`
	Points     int              `json:"points"`
	MaxPoints  int              `json:"max_points"`
	Results    []QuestionResult `json:"results"`
}

// Grade scores answers keyed by question ID. Unanswered questions count as wrong.
func (q *Quiz) Grade(answers map[string]string) QuizResult {
	result := QuizResult{
		QuizID:    q.ID,
		Total:     len(q.Questions),
		MaxPoints: q.MaxPoints(),
		Results:   make([]QuestionResult, 0, len(q.Questions)),
	}

	for _, question := range q.Questions {
		selected := answers[question.ID]
		correct := selected != "" && selected == question.Answer
		if correct {
			result.Score++
		}
		result.Results = append(result.Results, QuestionResult{
			QuestionID:  question.ID,
			Selected:    selected,
			Correct:     correct,
			Answer:      question.Answer,
			Explanation: question.Explanation,
		})
	}

	result.Points = result.Score * PointsPerQuestion
	if result.Total > 0 {
		result.Percentage = int(math.Round(float64(result.Score) / float64(result.Total) * 100))
	}
	return result
}
