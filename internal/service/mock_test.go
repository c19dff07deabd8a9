package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jmhart/world-conquest/internal/model"
	"github.com/jmhart/world-conquest/internal/repository"
	"github.com/jmhart/world-conquest/pkg/risk"
)

type mockGameRepo struct {
	games   map[string]*model.Game
	players map[string][]model.GamePlayer
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{
		games:   make(map[string]*model.Game),
		players: make(map[string][]model.GamePlayer),
	}
}

func (m *mockGameRepo) Create(_ context.Context, name, creatorID, mode, turnDur string) (*model.Game, error) {
	g := &model.Game{
		ID:           fmt.Sprintf("game-%d", len(m.games)+1),
		Name:         name,
		CreatorID:    creatorID,
		Status:       "waiting",
		Mode:         mode,
		TurnDuration: turnDur,
		CreatedAt:    time.Now(),
	}
	m.games[g.ID] = g
	return g, nil
}

func (m *mockGameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	g, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	cp.Players = m.players[id]
	return &cp, nil
}

func (m *mockGameRepo) ListOpen(_ context.Context) ([]model.Game, error) {
	var result []model.Game
	for _, g := range m.games {
		if g.Status == "waiting" {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGameRepo) ListByUser(_ context.Context, userID string) ([]model.Game, error) {
	seen := make(map[string]bool)
	var result []model.Game
	for gameID, players := range m.players {
		for _, p := range players {
			if p.UserID == userID && !seen[gameID] {
				if g, ok := m.games[gameID]; ok {
					result = append(result, *g)
					seen[gameID] = true
				}
			}
		}
	}
	for _, g := range m.games {
		if g.CreatorID == userID && !seen[g.ID] {
			result = append(result, *g)
			seen[g.ID] = true
		}
	}
	return result, nil
}

func (m *mockGameRepo) ListActive(_ context.Context) ([]model.Game, error) {
	var result []model.Game
	for _, g := range m.games {
		if g.Status == "setup" || g.Status == "playing" {
			cp := *g
			cp.Players = m.players[g.ID]
			result = append(result, cp)
		}
	}
	return result, nil
}

func (m *mockGameRepo) JoinGame(_ context.Context, gameID, userID string) error {
	m.players[gameID] = append(m.players[gameID], model.GamePlayer{
		GameID:   gameID,
		UserID:   userID,
		JoinedAt: time.Now(),
	})
	return nil
}

func (m *mockGameRepo) JoinGameAsBot(_ context.Context, gameID, userID, difficulty string) error {
	if difficulty == "" {
		difficulty = "easy"
	}
	m.players[gameID] = append(m.players[gameID], model.GamePlayer{
		GameID:        gameID,
		UserID:        userID,
		IsBot:         true,
		BotDifficulty: difficulty,
		JoinedAt:      time.Now(),
	})
	return nil
}

func (m *mockGameRepo) PlayerCount(_ context.Context, gameID string) (int, error) {
	return len(m.players[gameID]), nil
}

func (m *mockGameRepo) AssignSeats(_ context.Context, gameID string, seats map[string]model.GamePlayer) error {
	players := m.players[gameID]
	for i := range players {
		if seat, ok := seats[players[i].UserID]; ok {
			players[i].Color = seat.Color
			players[i].TurnOrder = seat.TurnOrder
		}
	}
	m.players[gameID] = players
	if g, ok := m.games[gameID]; ok {
		g.Status = "setup"
	}
	return nil
}

func (m *mockGameRepo) SetStarted(_ context.Context, gameID string) error {
	if g, ok := m.games[gameID]; ok {
		g.Status = "playing"
		now := time.Now()
		g.StartedAt = &now
	}
	return nil
}

func (m *mockGameRepo) SetFinished(_ context.Context, gameID, winner string) error {
	if g, ok := m.games[gameID]; ok {
		g.Status = "finished"
		g.Winner = winner
		now := time.Now()
		g.FinishedAt = &now
	}
	return nil
}

func (m *mockGameRepo) Delete(_ context.Context, gameID string) error {
	delete(m.games, gameID)
	delete(m.players, gameID)
	return nil
}

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *mockUserRepo) FindByProviderID(_ context.Context, provider, providerID string) (*model.User, error) {
	for _, u := range m.users {
		if u.Provider == provider && u.ProviderID == providerID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Upsert(_ context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error) {
	for _, u := range m.users {
		if u.Provider == provider && u.ProviderID == providerID {
			u.DisplayName = displayName
			return u, nil
		}
	}
	u := &model.User{
		ID:          fmt.Sprintf("%s-%s", provider, providerID),
		Provider:    provider,
		ProviderID:  providerID,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserRepo) UpdateDisplayName(_ context.Context, id, displayName string) error {
	if u, ok := m.users[id]; ok {
		u.DisplayName = displayName
	}
	return nil
}

// mockStateRepo keeps snapshots in memory and enforces the same version
// compare-and-swap the postgres implementation does. conflicts injects that
// many spurious ErrConflict results before writes start succeeding.
type mockStateRepo struct {
	mu        sync.Mutex
	states    map[string]*risk.GameState
	versions  map[string]int64
	started   map[string]bool
	conflicts int

	placeCalls      int
	attackCalls     int
	saveCalls       int
	transitionCalls int
}

func newMockStateRepo() *mockStateRepo {
	return &mockStateRepo{
		states:   make(map[string]*risk.GameState),
		versions: make(map[string]int64),
		started:  make(map[string]bool),
	}
}

func (m *mockStateRepo) Init(_ context.Context, gameID string, gs *risk.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[gameID] = gs.Clone()
	m.versions[gameID]++
	return nil
}

func (m *mockStateRepo) Load(_ context.Context, gameID string) (*risk.GameState, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gs, ok := m.states[gameID]
	if !ok {
		return nil, 0, nil
	}
	return gs.Clone(), m.versions[gameID], nil
}

func (m *mockStateRepo) write(gameID string, gs *risk.GameState, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts > 0 {
		m.conflicts--
		return repository.ErrConflict
	}
	if m.versions[gameID] != version {
		return repository.ErrConflict
	}
	m.states[gameID] = gs.Clone()
	m.versions[gameID]++
	return nil
}

func (m *mockStateRepo) Save(_ context.Context, gameID string, gs *risk.GameState, version int64) error {
	m.saveCalls++
	return m.write(gameID, gs, version)
}

func (m *mockStateRepo) PlaceArmiesAtomic(_ context.Context, gameID, _, _ string, _ int, gs *risk.GameState, version int64) error {
	m.placeCalls++
	return m.write(gameID, gs, version)
}

func (m *mockStateRepo) AttackAtomic(_ context.Context, gameID, _, _ string, _ risk.BattleOutcome, gs *risk.GameState, version int64) error {
	m.attackCalls++
	return m.write(gameID, gs, version)
}

func (m *mockStateRepo) CheckAndTransitionSetupAtomic(_ context.Context, gameID string, gs *risk.GameState) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitionCalls++
	if m.started[gameID] {
		return false, nil
	}
	for _, p := range gs.Players {
		if p.ArmiesToPlace > 0 && gs.Status == risk.StatusSetup {
			return false, nil
		}
	}
	m.started[gameID] = true
	return true, nil
}

type mockMoveRepo struct {
	moves map[string][]model.GameMove
}

func newMockMoveRepo() *mockMoveRepo {
	return &mockMoveRepo{moves: make(map[string][]model.GameMove)}
}

func (m *mockMoveRepo) Record(_ context.Context, gameID, userID string, turn int, mv risk.Move, outcome *risk.BattleOutcome) (*model.GameMove, error) {
	rec := model.GameMove{
		ID:        fmt.Sprintf("move-%d", len(m.moves[gameID])+1),
		GameID:    gameID,
		UserID:    userID,
		Turn:      turn,
		Kind:      string(mv.Kind),
		FromTerr:  mv.From,
		ToTerr:    mv.To,
		Troops:    mv.Troops,
		CreatedAt: time.Now(),
	}
	if outcome != nil {
		data, _ := json.Marshal(outcome)
		rec.Outcome = data
	}
	m.moves[gameID] = append(m.moves[gameID], rec)
	return &rec, nil
}

func (m *mockMoveRepo) ListByGame(_ context.Context, gameID string, limit int) ([]model.GameMove, error) {
	moves := m.moves[gameID]
	if limit > 0 && len(moves) > limit {
		moves = moves[len(moves)-limit:]
	}
	return moves, nil
}

type mockCache struct {
	mu     sync.Mutex
	states map[string]json.RawMessage
	timers map[string]time.Time
	online map[string]map[string]bool
}

func newMockCache() *mockCache {
	return &mockCache{
		states: make(map[string]json.RawMessage),
		timers: make(map[string]time.Time),
		online: make(map[string]map[string]bool),
	}
}

func (m *mockCache) SetGameState(_ context.Context, gameID string, state json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[gameID] = state
	return nil
}

func (m *mockCache) GetGameState(_ context.Context, gameID string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[gameID], nil
}

func (m *mockCache) InvalidateGameState(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, gameID)
	return nil
}

func (m *mockCache) SetTurnTimer(_ context.Context, gameID string, deadline time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers[gameID] = deadline
	return nil
}

func (m *mockCache) ClearTurnTimer(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timers, gameID)
	return nil
}

func (m *mockCache) MarkOnline(_ context.Context, gameID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.online[gameID] == nil {
		m.online[gameID] = make(map[string]bool)
	}
	m.online[gameID][userID] = true
	return nil
}

func (m *mockCache) MarkOffline(_ context.Context, gameID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.online[gameID], userID)
	return nil
}

func (m *mockCache) OnlineUsers(_ context.Context, gameID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []string
	for u := range m.online[gameID] {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockCache) DeleteGameData(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, gameID)
	delete(m.timers, gameID)
	delete(m.online, gameID)
	return nil
}

// recordingBroadcaster collects events for assertions.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) BroadcastGameEvent(gameID, eventType string, _ any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, eventType)
}

func (b *recordingBroadcaster) has(eventType string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.events {
		if e == eventType {
			return true
		}
	}
	return false
}
