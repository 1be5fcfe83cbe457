package model

// Exercise упражнение предмета, нумеруется в пределах предмета
type Exercise struct {
	ID        int64 `json:"exerciseID"`
	Number    int   `json:"exerciseNumber"`
	SubjectID int64 `json:"subjectID"`
}

// ExercisesByNumbers возвращает упражнения предмета, номера которых отмечены
// Порядок - как в списке предмета
func ExercisesByNumbers(exercises []Exercise, checked map[int]bool) []Exercise {
	result := make([]Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if checked[ex.Number] {
			result = append(result, ex)
		}
	}
	return result
}

// AnyChecked отмечено ли хоть одно упражнение
func AnyChecked(checked map[int]bool) bool {
	for _, ok := range checked {
		if ok {
			return true
		}
	}
	return false
}
