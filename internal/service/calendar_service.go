package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/QuadricIT2018/az-conference-app-mvp/config"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/eventday"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
)

// ── iCalendar 导出 ──────────────────────────────────────────
//
// 将参会者收藏的场次导出为 RFC 5545 日历，供手机日历订阅 / 导入。
//   - 场次时间按场次自身时区解释，缺省 UTC
//   - 无结束时间的场次按默认时长补齐
// ─────────────────────────────────────────────────────────────

const (
	icsProductID         = "-//AZ Conference//Favourites//EN"
	defaultSessionLength = time.Hour
	defaultSessionZone   = "UTC"
)

// CalendarService 日历导出业务接口
type CalendarService interface {
	// FavouritesICS 收藏场次的 .ics 内容
	FavouritesICS(ctx context.Context, userID string) ([]byte, error)
}

type calendarService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

func (s *calendarService) FavouritesICS(ctx context.Context, userID string) ([]byte, error) {
	favs, err := s.repo.Favourite.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询收藏列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("My Sessions")

	stamp := s.now().UTC()
	for _, fav := range favs {
		start, end, ok := sessionWindow(fav.SessionDate, fav.SessionStartTime, strValue(fav.SessionEndTime), strValue(fav.Timezone))
		if !ok {
			s.logger.Warn("场次时间无法解析，跳过",
				zap.String("session_id", fav.SessionID),
				zap.String("date", fav.SessionDate),
				zap.String("start", fav.SessionStartTime),
			)
			continue
		}

		ev := cal.AddEvent(fav.SessionID + "@az-conference")
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(fav.SessionName)
		if loc := strValue(fav.SessionLocation); loc != "" {
			ev.SetLocation(loc)
		}
		desc := fav.EventName
		if d := strValue(fav.SessionDescription); d != "" {
			desc += "\n\n" + d
		}
		ev.SetDescription(desc)
		if u := s.sessionURL(fav); u != "" {
			ev.SetURL(u)
		}
	}

	return []byte(cal.Serialize()), nil
}

func (s *calendarService) sessionURL(fav repository.FavouriteSession) string {
	base := strings.TrimRight(s.cfg.Server.BaseURL, "/")
	if base == "" || fav.EventSlug == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s/sessions/%s", base, *fav.EventSlug, fav.SessionID)
}

// sessionWindow 将日期 + HH:MM[:SS] 按时区解析为起止时间
func sessionWindow(date, startClock, endClock, tz string) (time.Time, time.Time, bool) {
	if tz == "" {
		tz = defaultSessionZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}

	start, ok := parseClock(date, startClock, loc)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := parseClock(date, endClock, loc)
	if !ok || !end.After(start) {
		end = start.Add(defaultSessionLength)
	}
	return start, end, true
}

func parseClock(date, clock string, loc *time.Location) (time.Time, bool) {
	date = eventday.NormalizeDate(date)
	clock = strings.TrimSpace(clock)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.ParseInLocation(eventday.DateLayout+" "+layout, date+" "+clock, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
