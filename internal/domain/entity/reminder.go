package entity

import "cloud.google.com/go/civil"

// ReminderKind причина уведомления.
type ReminderKind string

const (
	// ReminderDue наступила плановая дата теста.
	ReminderDue ReminderKind = "due"
	// ReminderAlert записанный тест содержит показатели вне диапазона.
	ReminderAlert ReminderKind = "alert"
)

// Reminder уведомление по тесту: напоминание в день NextTestDate
// или оповещение об отклонениях сразу после записи.
type Reminder struct {
	Kind         ReminderKind `json:"kind"`
	PoolTestID   int64        `json:"pool_test_id"`
	TestDate     civil.Date   `json:"test_date"`
	NextTestDate civil.Date   `json:"next_test_date"`
	OutOfRange   []string     `json:"out_of_range,omitempty"`
}

// NewReminder напоминание о плановом тесте для t.
func NewReminder(t *PoolTest) Reminder {
	r := Reminder{
		Kind:         ReminderDue,
		PoolTestID:   t.ID,
		TestDate:     t.TestDate,
		NextTestDate: t.NextTestDate,
	}

	for _, f := range t.OutOfRange() {
		r.OutOfRange = append(r.OutOfRange, f.Key()+": "+t.Status(f).String())
	}

	return r
}

// AsAlert копия уведомления с видом ReminderAlert.
func (r Reminder) AsAlert() Reminder {
	r.Kind = ReminderAlert
	return r
}
