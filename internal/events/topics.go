package events

// Topics events are published to.
const (
	TopicGradebook  = "school.gradebook"
	TopicAttendance = "school.attendance"
	TopicSchedule   = "school.schedule"
	TopicRoster     = "school.roster"
	TopicMessaging  = "school.messaging"
)

// Event types.
const (
	EventGradeUpserted           = "gradebook.grade_upserted"
	EventAttendanceUpserted      = "attendance.record_upserted"
	EventLessonCreated           = "schedule.lesson_created"
	EventAssignmentStatusChanged = "schedule.assignment_status_changed"
	EventUserCreated             = "roster.user_created"
	EventSubjectCreated          = "roster.subject_created"
	EventMessageSent             = "messaging.message_sent"
)
