package spacedrep

// BaseIntervals defines the expanding interval schedule in days.
// Stage 0 = first review after a question was missed.
var BaseIntervals = []int{1, 3, 7, 14, 30, 60}

// GraduationStage is the number of consecutive sessions in which the
// learner must ask a queued question before it leaves the queue.
const GraduationStage = 6

// GraduatedIntervalDays is the review interval for graduated questions.
const GraduatedIntervalDays = 90
