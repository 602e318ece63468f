package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"classroom-booking/backend/internal/engine"
)

// Calendar 输出课程未取消课次的 iCalendar 订阅源
// 节次时间按课表时区解释，序列化为 UTC
func (s *exportService) Calendar(ctx context.Context, courseID string) ([]byte, string, error) {
	course, events, grid, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//classroom-booking//timeline//ZH")
	cal.SetXWRCalName(course.Name)

	stamp := time.Now().UTC()
	for i := range events {
		e := &events[i]
		if e.Canceled {
			continue
		}
		start, end, err := grid.SlotTimes(e.TimeSlotID, e.Day, s.loc)
		if err != nil {
			s.logger.Warn("课次节次无效，已跳过",
				zap.String("course_event_id", e.CourseEventID),
				zap.Int("time_slot_id", e.TimeSlotID),
			)
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@classroom-booking", e.CourseEventID))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(course.Name)
		ev.SetLocation(roomName(e))
		if e.WasRescheduled {
			ev.SetDescription(fmt.Sprintf("调课 %s 第%d节", engine.FormatDay(e.Day), e.TimeSlotID))
		}
	}

	return []byte(cal.Serialize()), fmt.Sprintf("%s.ics", course.Name), nil
}
