package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/eventday"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/model"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/repository"
	"github.com/QuadricIT2018/az-conference-app-mvp/internal/visibility"
	pkgerrors "github.com/QuadricIT2018/az-conference-app-mvp/pkg/errors"
)

// mockRepos 一组互相关联的内存 mock，覆盖 repository.Repository 的全部成员
type mockRepos struct {
	dept      *mockDeptRepo
	team      *mockTeamRepo
	attendee  *mockAttendeeRepo
	admin     *mockAdminRepo
	event     *mockEventRepo
	session   *mockSessionRepo
	speaker   *mockSpeakerRepo
	taxonomy  *mockTaxonomyRepo
	update    *mockUpdateRepo
	favourite *mockFavouriteRepo
}

func newMockRepos() *mockRepos {
	m := &mockRepos{
		dept:      newMockDeptRepo(),
		team:      newMockTeamRepo(),
		attendee:  newMockAttendeeRepo(),
		admin:     newMockAdminRepo(),
		event:     newMockEventRepo(),
		speaker:   newMockSpeakerRepo(),
		taxonomy:  newMockTaxonomyRepo(),
		update:    newMockUpdateRepo(),
		favourite: newMockFavouriteRepo(),
	}
	m.session = newMockSessionRepo(m.event, m.speaker, m.favourite)
	m.favourite.sessions = m.session
	m.favourite.events = m.event
	return m
}

func (m *mockRepos) repository() *repository.Repository {
	return &repository.Repository{
		Department: m.dept,
		Team:       m.team,
		Attendee:   m.attendee,
		Admin:      m.admin,
		Event:      m.event,
		Session:    m.session,
		Speaker:    m.speaker,
		Taxonomy:   m.taxonomy,
		Update:     m.update,
		Favourite:  m.favourite,
	}
}

// duplicateErr 模拟 TranslateError 后的唯一约束冲突
var duplicateErr = gorm.ErrDuplicatedKey

func strPtr(s string) *string { return &s }

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts map[string]*model.Department
	seq   int
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	for _, d := range m.depts {
		if d.Name == dept.Name {
			return duplicateErr
		}
	}
	if dept.DepartmentID == "" {
		m.seq++
		dept.DepartmentID = fmt.Sprintf("dept-%d", m.seq)
	}
	for i := range dept.Teams {
		dept.Teams[i].DepartmentID = dept.DepartmentID
		if dept.Teams[i].TeamID == "" {
			dept.Teams[i].TeamID = fmt.Sprintf("%s-team-%d", dept.DepartmentID, i+1)
		}
	}
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.depts {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	if _, ok := m.depts[dept.DepartmentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.depts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.depts, id)
	return nil
}

// ── Mock TeamRepository ──

type mockTeamRepo struct {
	teams map[string]*model.Team
	seq   int
}

func newMockTeamRepo() *mockTeamRepo {
	return &mockTeamRepo{teams: make(map[string]*model.Team)}
}

func (m *mockTeamRepo) Create(_ context.Context, team *model.Team) error {
	for _, t := range m.teams {
		if t.DepartmentID == team.DepartmentID && t.Name == team.Name {
			return duplicateErr
		}
	}
	if team.TeamID == "" {
		m.seq++
		team.TeamID = fmt.Sprintf("team-%d", m.seq)
	}
	m.teams[team.TeamID] = team
	return nil
}

func (m *mockTeamRepo) GetByID(_ context.Context, id string) (*model.Team, error) {
	if t, ok := m.teams[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) List(_ context.Context, departmentID string) ([]model.Team, error) {
	var result []model.Team
	for _, t := range m.teams {
		if departmentID == "" || t.DepartmentID == departmentID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockTeamRepo) Update(_ context.Context, team *model.Team) error {
	if _, ok := m.teams[team.TeamID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, t := range m.teams {
		if t.TeamID != team.TeamID && t.DepartmentID == team.DepartmentID && t.Name == team.Name {
			return duplicateErr
		}
	}
	m.teams[team.TeamID] = team
	return nil
}

func (m *mockTeamRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.teams[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.teams, id)
	return nil
}

// ── Mock AttendeeRepository ──

type mockAttendeeRepo struct {
	attendees map[string]*model.Attendee
	seq       int
	createErr error // 非 nil 时 Create 返回该错误（用于测试事务回滚路径）
}

func newMockAttendeeRepo() *mockAttendeeRepo {
	return &mockAttendeeRepo{attendees: make(map[string]*model.Attendee)}
}

func (m *mockAttendeeRepo) Create(_ context.Context, a *model.Attendee) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, x := range m.attendees {
		if x.Email == a.Email {
			return duplicateErr
		}
	}
	if a.AttendeeID == "" {
		m.seq++
		a.AttendeeID = fmt.Sprintf("att-%d", m.seq)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	m.attendees[a.AttendeeID] = a
	return nil
}

func (m *mockAttendeeRepo) GetByID(_ context.Context, id string) (*model.Attendee, error) {
	if a, ok := m.attendees[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendeeRepo) GetByEmail(_ context.Context, email string) (*model.Attendee, error) {
	for _, a := range m.attendees {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendeeRepo) List(_ context.Context, f repository.AttendeeFilter) ([]model.Attendee, int64, error) {
	var result []model.Attendee
	for _, a := range m.attendees {
		if f.Search != "" && !strings.Contains(a.Email, f.Search) {
			continue
		}
		if f.Department != "" && !visibility.ParseScope(a.Department).Contains(f.Department) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	total := int64(len(result))
	if f.Limit > 0 {
		end := f.Offset + f.Limit
		if f.Offset > len(result) {
			f.Offset = len(result)
		}
		if end > len(result) {
			end = len(result)
		}
		result = result[f.Offset:end]
	}
	return result, total, nil
}

func (m *mockAttendeeRepo) ListByTeam(_ context.Context, team, excludeID string) ([]model.Attendee, error) {
	var result []model.Attendee
	for _, a := range m.attendees {
		if a.AttendeeID == excludeID || a.Team == nil || *a.Team != team {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

func (m *mockAttendeeRepo) Update(_ context.Context, a *model.Attendee) error {
	if _, ok := m.attendees[a.AttendeeID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *a
	m.attendees[a.AttendeeID] = &cp
	return nil
}

func (m *mockAttendeeRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	a, ok := m.attendees[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (m *mockAttendeeRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	a, ok := m.attendees[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.LastLogin = &at
	return nil
}

func (m *mockAttendeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.attendees[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.attendees, id)
	return nil
}

func (m *mockAttendeeRepo) Stats(_ context.Context, activeSince time.Time) (*repository.AttendeeStats, error) {
	stats := &repository.AttendeeStats{}
	byDept := make(map[string]int64)
	for _, a := range m.attendees {
		stats.Total++
		if a.LastLogin != nil && a.LastLogin.After(activeSince) {
			stats.ActiveRecent++
		}
		byDept[strValue(a.Department)]++
	}
	for dept, n := range byDept {
		var d *string
		if dept != "" {
			d = strPtr(dept)
		}
		stats.ByDepartment = append(stats.ByDepartment, repository.DepartmentCount{Department: d, Count: n})
	}
	return stats, nil
}

// ── Mock AdminRepository ──

type mockAdminRepo struct {
	admins map[string]*model.Admin
	seq    int
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[string]*model.Admin)}
}

func (m *mockAdminRepo) Create(_ context.Context, a *model.Admin) error {
	for _, x := range m.admins {
		if x.Email == a.Email {
			return duplicateErr
		}
	}
	if a.AdminID == "" {
		m.seq++
		a.AdminID = fmt.Sprintf("adm-%d", m.seq)
	}
	m.admins[a.AdminID] = a
	return nil
}

func (m *mockAdminRepo) GetByID(_ context.Context, id string) (*model.Admin, error) {
	if a, ok := m.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	for _, a := range m.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) List(_ context.Context) ([]model.Admin, error) {
	var result []model.Admin
	for _, a := range m.admins {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

func (m *mockAdminRepo) Update(_ context.Context, a *model.Admin) error {
	if _, ok := m.admins[a.AdminID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *a
	m.admins[a.AdminID] = &cp
	return nil
}

func (m *mockAdminRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	a, ok := m.admins[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (m *mockAdminRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.admins[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.admins, id)
	return nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[string]*model.Event
	days   map[string][]model.EventDay
	seq    int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{
		events: make(map[string]*model.Event),
		days:   make(map[string][]model.EventDay),
	}
}

func (m *mockEventRepo) Create(_ context.Context, e *model.Event) error {
	if e.EventSlug != nil {
		for _, x := range m.events {
			if x.EventSlug != nil && *x.EventSlug == *e.EventSlug {
				return duplicateErr
			}
		}
	}
	if e.EventID == "" {
		m.seq++
		e.EventID = fmt.Sprintf("evt-%d", m.seq)
	}
	if e.Version == 0 {
		e.Version = 1
	}
	cp := *e
	m.events[e.EventID] = &cp
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) GetPublishedBySlug(_ context.Context, slug string) (*model.Event, error) {
	for _, e := range m.events {
		if e.EventSlug != nil && *e.EventSlug == slug && !e.IsDraft {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) List(_ context.Context, f repository.EventFilter) ([]model.Event, int64, error) {
	var result []model.Event
	for _, e := range m.events {
		switch f.Status {
		case repository.EventStatusDraft:
			if !e.IsDraft {
				continue
			}
		case repository.EventStatusPublished:
			if e.IsDraft {
				continue
			}
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EventStartDate < result[j].EventStartDate })
	return result, int64(len(result)), nil
}

func (m *mockEventRepo) Update(_ context.Context, e *model.Event) error {
	cur, ok := m.events[e.EventID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if cur.Version != e.Version {
		return pkgerrors.ErrOptimisticLock
	}
	e.Version++
	cp := *e
	m.events[e.EventID] = &cp
	return nil
}

func (m *mockEventRepo) UpdateColumns(_ context.Context, id string, cols map[string]interface{}) error {
	e, ok := m.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range cols {
		switch k {
		case "wifi":
			e.Wifi = v.(datatypes.JSONSlice[model.WifiInfo])
		case "helpdesk":
			e.Helpdesk = v.(datatypes.JSONSlice[model.HelpdeskInfo])
		case "venue_maps":
			e.VenueMaps = v.(datatypes.JSONSlice[model.VenueMapInfo])
		case "quick_links":
			e.QuickLinks = v.(datatypes.JSONSlice[model.QuickLink])
		case "event_banners":
			e.EventBanners = v.(datatypes.JSONType[model.EventBanners])
		case "pwa_logo_url":
			e.PWALogoURL = v.(*string)
		}
	}
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.events, id)
	delete(m.days, id)
	return nil
}

func (m *mockEventRepo) Counts(_ context.Context, id string) (*repository.EventCounts, error) {
	return &repository.EventCounts{Days: int64(len(m.days[id]))}, nil
}

func (m *mockEventRepo) ListDays(_ context.Context, eventID string) ([]model.EventDay, error) {
	return m.days[eventID], nil
}

func (m *mockEventRepo) ReplaceDays(_ context.Context, eventID string, days []eventday.Day) error {
	rows := make([]model.EventDay, 0, len(days))
	for _, d := range days {
		rows = append(rows, model.EventDay{EventID: eventID, DayNumber: d.Number, DayDate: d.Date})
	}
	m.days[eventID] = rows
	return nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	sessions map[string]*model.Session
	topics   map[string]*model.SessionTopic
	links    map[string][]string // session_id -> speaker_ids
	seq      int

	events    *mockEventRepo
	speakers  *mockSpeakerRepo
	favourite *mockFavouriteRepo
}

func newMockSessionRepo(events *mockEventRepo, speakers *mockSpeakerRepo, fav *mockFavouriteRepo) *mockSessionRepo {
	return &mockSessionRepo{
		sessions:  make(map[string]*model.Session),
		topics:    make(map[string]*model.SessionTopic),
		links:     make(map[string][]string),
		events:    events,
		speakers:  speakers,
		favourite: fav,
	}
}

func (m *mockSessionRepo) Create(_ context.Context, s *model.Session) error {
	if s.SessionID == "" {
		m.seq++
		s.SessionID = fmt.Sprintf("sess-%d", m.seq)
	}
	cp := *s
	m.sessions[s.SessionID] = &cp
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.hydrate(s), nil
}

// hydrate 模拟 Preload：讲者、议题、所属活动
func (m *mockSessionRepo) hydrate(s *model.Session) *model.Session {
	cp := *s
	cp.Speakers = nil
	for _, sid := range m.links[s.SessionID] {
		if sp, ok := m.speakers.speakers[sid]; ok {
			cp.Speakers = append(cp.Speakers, *sp)
		}
	}
	cp.Topics = nil
	for _, t := range m.topics {
		if t.SessionID == s.SessionID {
			cp.Topics = append(cp.Topics, *t)
		}
	}
	if s.EventID != nil {
		if e, ok := m.events.events[*s.EventID]; ok {
			ev := *e
			cp.Event = &ev
		}
	}
	return &cp
}

func (m *mockSessionRepo) Update(_ context.Context, s *model.Session) error {
	if _, ok := m.sessions[s.SessionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *s
	m.sessions[s.SessionID] = &cp
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.sessions, id)
	delete(m.links, id)
	return nil
}

func (m *mockSessionRepo) sorted(filter func(*model.Session) bool) []model.Session {
	var result []model.Session
	for _, s := range m.sessions {
		if filter(s) {
			result = append(result, *m.hydrate(s))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SessionDate != result[j].SessionDate {
			return result[i].SessionDate < result[j].SessionDate
		}
		return result[i].SessionStartTime < result[j].SessionStartTime
	})
	return result
}

func (m *mockSessionRepo) ListByEvent(_ context.Context, eventID, date string) ([]model.Session, error) {
	return m.sorted(func(s *model.Session) bool {
		return s.EventID != nil && *s.EventID == eventID && (date == "" || s.SessionDate == date)
	}), nil
}

func (m *mockSessionRepo) ListVisible(ctx context.Context, q repository.SessionQuery) ([]repository.VisibleSession, error) {
	list := m.sorted(func(s *model.Session) bool {
		return s.EventID != nil && *s.EventID == q.EventID &&
			(q.Date == "" || s.SessionDate == q.Date) &&
			q.Viewer.CanSee(s.Descriptor())
	})
	var result []repository.VisibleSession
	for _, s := range list {
		fav, _ := m.favourite.Exists(ctx, q.UserID, s.SessionID)
		if q.FavouritesOnly && !fav {
			continue
		}
		result = append(result, repository.VisibleSession{Session: s, IsFavourite: fav})
	}
	return result, nil
}

func (m *mockSessionRepo) ListDatedDescriptors(_ context.Context, eventID string) ([]visibility.DatedDescriptor, error) {
	var result []visibility.DatedDescriptor
	for _, s := range m.sessions {
		if s.EventID != nil && *s.EventID == eventID {
			result = append(result, visibility.DatedDescriptor{Date: s.SessionDate, Descriptor: s.Descriptor()})
		}
	}
	return result, nil
}

func (m *mockSessionRepo) ListBySpeaker(_ context.Context, speakerID string) ([]model.Session, error) {
	return m.sorted(func(s *model.Session) bool {
		if s.EventID == nil {
			return false
		}
		if e, ok := m.events.events[*s.EventID]; !ok || e.IsDraft {
			return false
		}
		for _, id := range m.links[s.SessionID] {
			if id == speakerID {
				return true
			}
		}
		return false
	}), nil
}

func (m *mockSessionRepo) ListTopics(_ context.Context, sessionID string) ([]model.SessionTopic, error) {
	var result []model.SessionTopic
	for _, t := range m.topics {
		if t.SessionID == sessionID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockSessionRepo) GetTopic(_ context.Context, sessionID, topicID string) (*model.SessionTopic, error) {
	t, ok := m.topics[topicID]
	if !ok || t.SessionID != sessionID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockSessionRepo) CreateTopic(_ context.Context, t *model.SessionTopic) error {
	if t.TopicID == "" {
		m.seq++
		t.TopicID = fmt.Sprintf("topic-%d", m.seq)
	}
	cp := *t
	m.topics[t.TopicID] = &cp
	if s, ok := m.sessions[t.SessionID]; ok {
		s.HasTopics = true
	}
	return nil
}

func (m *mockSessionRepo) UpdateTopic(_ context.Context, t *model.SessionTopic) error {
	if _, ok := m.topics[t.TopicID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *t
	m.topics[t.TopicID] = &cp
	return nil
}

func (m *mockSessionRepo) DeleteTopic(_ context.Context, sessionID, topicID string) error {
	t, ok := m.topics[topicID]
	if !ok || t.SessionID != sessionID {
		return gorm.ErrRecordNotFound
	}
	delete(m.topics, topicID)
	remaining := false
	for _, x := range m.topics {
		if x.SessionID == sessionID {
			remaining = true
			break
		}
	}
	if s, ok := m.sessions[sessionID]; ok {
		s.HasTopics = remaining
	}
	return nil
}

func (m *mockSessionRepo) AddSpeakers(_ context.Context, sessionID string, speakerIDs []string) error {
	for _, id := range speakerIDs {
		exists := false
		for _, cur := range m.links[sessionID] {
			if cur == id {
				exists = true
				break
			}
		}
		if !exists {
			m.links[sessionID] = append(m.links[sessionID], id)
		}
	}
	return nil
}

func (m *mockSessionRepo) RemoveSpeaker(_ context.Context, sessionID, speakerID string) error {
	ids := m.links[sessionID]
	for i, id := range ids {
		if id == speakerID {
			m.links[sessionID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// link 测试辅助：直接建立场次-讲者关联
func (m *mockSessionRepo) link(sessionID string, speakerIDs ...string) {
	m.links[sessionID] = append(m.links[sessionID], speakerIDs...)
}

// ── Mock SpeakerRepository ──

type mockSpeakerRepo struct {
	speakers map[string]*model.Speaker
	seq      int
}

func newMockSpeakerRepo() *mockSpeakerRepo {
	return &mockSpeakerRepo{speakers: make(map[string]*model.Speaker)}
}

func (m *mockSpeakerRepo) Create(_ context.Context, s *model.Speaker) error {
	if s.SpeakerID == "" {
		m.seq++
		s.SpeakerID = fmt.Sprintf("spk-%d", m.seq)
	}
	cp := *s
	m.speakers[s.SpeakerID] = &cp
	return nil
}

func (m *mockSpeakerRepo) GetByID(_ context.Context, id string) (*model.Speaker, error) {
	if s, ok := m.speakers[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSpeakerRepo) List(_ context.Context, search string) ([]model.Speaker, error) {
	var result []model.Speaker
	for _, s := range m.speakers {
		if search != "" && !strings.Contains(strings.ToLower(s.SpeakerName), strings.ToLower(search)) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SpeakerName < result[j].SpeakerName })
	return result, nil
}

func (m *mockSpeakerRepo) ListByEvent(_ context.Context, _ string) ([]model.Speaker, error) {
	return m.List(context.Background(), "")
}

func (m *mockSpeakerRepo) CountExisting(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := m.speakers[id]; ok {
			n++
		}
	}
	return n, nil
}

func (m *mockSpeakerRepo) Update(_ context.Context, s *model.Speaker) error {
	if _, ok := m.speakers[s.SpeakerID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *s
	m.speakers[s.SpeakerID] = &cp
	return nil
}

func (m *mockSpeakerRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.speakers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.speakers, id)
	return nil
}

// ── Mock TaxonomyRepository ──

type mockTaxonomyRepo struct {
	tags  map[string]*model.SessionTag
	types map[string]*model.SessionType
	seq   int
}

func newMockTaxonomyRepo() *mockTaxonomyRepo {
	return &mockTaxonomyRepo{
		tags:  make(map[string]*model.SessionTag),
		types: make(map[string]*model.SessionType),
	}
}

func (m *mockTaxonomyRepo) ListTags(_ context.Context) ([]model.SessionTag, error) {
	var result []model.SessionTag
	for _, t := range m.tags {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockTaxonomyRepo) GetTag(_ context.Context, id string) (*model.SessionTag, error) {
	if t, ok := m.tags[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaxonomyRepo) CreateTag(_ context.Context, t *model.SessionTag) error {
	for _, x := range m.tags {
		if x.Name == t.Name {
			return duplicateErr
		}
	}
	m.seq++
	t.TagID = fmt.Sprintf("tag-%d", m.seq)
	cp := *t
	m.tags[t.TagID] = &cp
	return nil
}

func (m *mockTaxonomyRepo) RenameTag(_ context.Context, id, name string) error {
	t, ok := m.tags[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, x := range m.tags {
		if x.TagID != id && x.Name == name {
			return duplicateErr
		}
	}
	t.Name = name
	return nil
}

func (m *mockTaxonomyRepo) DeleteTag(_ context.Context, id string) error {
	if _, ok := m.tags[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.tags, id)
	return nil
}

func (m *mockTaxonomyRepo) ListTypes(_ context.Context) ([]model.SessionType, error) {
	var result []model.SessionType
	for _, t := range m.types {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockTaxonomyRepo) GetType(_ context.Context, id string) (*model.SessionType, error) {
	if t, ok := m.types[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaxonomyRepo) CreateType(_ context.Context, t *model.SessionType) error {
	for _, x := range m.types {
		if x.Name == t.Name {
			return duplicateErr
		}
	}
	m.seq++
	t.TypeID = fmt.Sprintf("type-%d", m.seq)
	cp := *t
	m.types[t.TypeID] = &cp
	return nil
}

func (m *mockTaxonomyRepo) RenameType(_ context.Context, id, name string) error {
	t, ok := m.types[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, x := range m.types {
		if x.TypeID != id && x.Name == name {
			return duplicateErr
		}
	}
	t.Name = name
	return nil
}

func (m *mockTaxonomyRepo) DeleteType(_ context.Context, id string) error {
	if _, ok := m.types[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.types, id)
	return nil
}

// ── Mock UpdateRepository ──

type mockUpdateRepo struct {
	updates map[string]*model.ImportantUpdate
	seq     int
}

func newMockUpdateRepo() *mockUpdateRepo {
	return &mockUpdateRepo{updates: make(map[string]*model.ImportantUpdate)}
}

func (m *mockUpdateRepo) Create(_ context.Context, u *model.ImportantUpdate) error {
	m.seq++
	u.UpdateID = fmt.Sprintf("upd-%d", m.seq)
	cp := *u
	m.updates[u.UpdateID] = &cp
	return nil
}

func (m *mockUpdateRepo) GetByID(_ context.Context, id string) (*model.ImportantUpdate, error) {
	if u, ok := m.updates[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUpdateRepo) ListByEvent(_ context.Context, eventID string) ([]model.ImportantUpdate, error) {
	var result []model.ImportantUpdate
	for _, u := range m.updates {
		if u.EventID != nil && *u.EventID == eventID {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdateDateTime.After(result[j].UpdateDateTime) })
	return result, nil
}

func (m *mockUpdateRepo) Update(_ context.Context, u *model.ImportantUpdate) error {
	if _, ok := m.updates[u.UpdateID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *u
	m.updates[u.UpdateID] = &cp
	return nil
}

func (m *mockUpdateRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.updates[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.updates, id)
	return nil
}

// ── Mock FavouriteRepository ──

type mockFavouriteRepo struct {
	favs     map[string]model.UserFavouriteSession // key: user_id|session_id
	sessions *mockSessionRepo
	events   *mockEventRepo
}

func newMockFavouriteRepo() *mockFavouriteRepo {
	return &mockFavouriteRepo{favs: make(map[string]model.UserFavouriteSession)}
}

func favKey(userID, sessionID string) string { return userID + "|" + sessionID }

func (m *mockFavouriteRepo) Add(_ context.Context, userID, sessionID, eventID string) error {
	key := favKey(userID, sessionID)
	if _, ok := m.favs[key]; ok {
		return nil
	}
	m.favs[key] = model.UserFavouriteSession{
		UserID:    userID,
		SessionID: sessionID,
		EventID:   eventID,
		CreatedAt: time.Now(),
	}
	return nil
}

func (m *mockFavouriteRepo) Remove(_ context.Context, userID, sessionID string) error {
	delete(m.favs, favKey(userID, sessionID))
	return nil
}

func (m *mockFavouriteRepo) Exists(_ context.Context, userID, sessionID string) (bool, error) {
	_, ok := m.favs[favKey(userID, sessionID)]
	return ok, nil
}

func (m *mockFavouriteRepo) ListByUser(_ context.Context, userID string) ([]repository.FavouriteSession, error) {
	var result []repository.FavouriteSession
	for _, f := range m.favs {
		if f.UserID != userID {
			continue
		}
		s, ok := m.sessions.sessions[f.SessionID]
		if !ok {
			continue
		}
		row := repository.FavouriteSession{Session: *s}
		if e, ok := m.events.events[f.EventID]; ok {
			row.EventSlug = e.EventSlug
			row.EventName = e.EventName
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SessionDate != result[j].SessionDate {
			return result[i].SessionDate < result[j].SessionDate
		}
		return result[i].SessionStartTime < result[j].SessionStartTime
	})
	return result, nil
}
