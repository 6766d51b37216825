package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"vintedwatch/internal/model"

	"github.com/bwmarrin/discordgo"
)

// In-memory fakes for the repository and transport interfaces.

type fakeSearchRepo struct {
	mu       sync.Mutex
	searches map[int]model.Search
	nextID   int
}

func newFakeSearchRepo() *fakeSearchRepo {
	return &fakeSearchRepo{searches: make(map[int]model.Search), nextID: 1}
}

func (r *fakeSearchRepo) GetByID(id int) (*model.Search, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.searches[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *fakeSearchRepo) GetByUser(userID string) ([]model.Search, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Search
	for _, s := range r.searches {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SearchID < out[j].SearchID })
	return out, nil
}

func (r *fakeSearchRepo) GetEnabled() ([]model.Search, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Search
	for _, s := range r.searches {
		if s.Enabled {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SearchID < out[j].SearchID })
	return out, nil
}

func (r *fakeSearchRepo) GetAll() ([]model.Search, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Search
	for _, s := range r.searches {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SearchID < out[j].SearchID })
	return out, nil
}

func (r *fakeSearchRepo) Create(search *model.Search) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	search.SearchID = r.nextID
	r.nextID++
	r.searches[search.SearchID] = *search
	return nil
}

func (r *fakeSearchRepo) Update(search *model.Search) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches[search.SearchID] = *search
	return nil
}

func (r *fakeSearchRepo) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.searches, id)
	return nil
}

func (r *fakeSearchRepo) TouchLastRun(id int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.searches[id]; ok {
		s.LastRun = &at
		r.searches[id] = s
	}
	return nil
}

type fakeSeenRepo struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func newFakeSeenRepo() *fakeSeenRepo {
	return &fakeSeenRepo{seen: make(map[string]time.Time)}
}

func (r *fakeSeenRepo) Contains(listingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[listingID]
	return ok, nil
}

func (r *fakeSeenRepo) Add(listingID string, seenAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[listingID]; !ok {
		r.seen[listingID] = seenAt
	}
	return nil
}

func (r *fakeSeenRepo) FilterNew(listingIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var fresh []string
	for _, id := range listingIDs {
		if _, ok := r.seen[id]; !ok {
			fresh = append(fresh, id)
		}
	}
	return fresh, nil
}

func (r *fakeSeenRepo) DeleteOlderThan(cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, at := range r.seen {
		if at.Before(cutoff) {
			delete(r.seen, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeSeenRepo) Count() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen), nil
}

type fakeSettingRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{values: make(map[string]string)}
}

func (r *fakeSettingRepo) Get(key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key], nil
}

func (r *fakeSettingRepo) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

type sentMessage struct {
	channelID string
	userID    string
	content   string
	embed     *discordgo.MessageEmbed
}

type fakeSender struct {
	mu      sync.Mutex
	channel []sentMessage
	dm      []sentMessage
	sendErr error
	dmErr   error
}

func (s *fakeSender) SendEmbed(channelID, content string, embed *discordgo.MessageEmbed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.channel = append(s.channel, sentMessage{channelID: channelID, content: content, embed: embed})
	return nil
}

func (s *fakeSender) SendDM(userID string, embed *discordgo.MessageEmbed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dmErr != nil {
		return s.dmErr
	}
	s.dm = append(s.dm, sentMessage{userID: userID, embed: embed})
	return nil
}

type fakeFetcher struct {
	mu       sync.Mutex
	listings []model.Listing
	err      error
	calls    int
}

func (f *fakeFetcher) Search(_ context.Context, search *model.Search, limit int) ([]model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Listing, 0, limit)
	for _, l := range f.listings {
		if len(out) >= limit {
			break
		}
		l.SearchID = search.SearchID
		out = append(out, l)
	}
	return out, nil
}
