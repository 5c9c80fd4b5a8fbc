package collab

import (
	"crypto/rand"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Dannysek/SimpleServer/internal/session"
)

// MemoryPopulationCounter is a reference PopulationCounter: an atomic
// counter the host increments/decrements as Sessions join and leave. It is
// grounded in the teacher's own atomically-guarded currentOnline counter
// (handler.go/motion.go's player-count simulator), repurposed here to count
// real connected Sessions instead of simulated ones.
type MemoryPopulationCounter struct {
	n atomic.Int64
}

func (c *MemoryPopulationCounter) Count() int { return int(c.n.Load()) }
func (c *MemoryPopulationCounter) Inc()        { c.n.Add(1) }
func (c *MemoryPopulationCounter) Dec()        { c.n.Add(-1) }

// MemoryChestRegistry is a reference ChestRegistry backed by a map guarded
// by a single mutex — every mutation is followed by a call to persist,
// which is a no-op here (there is no real store backing this reference
// implementation; spec.md §1 scopes persistence out of the core). It is
// grounded in the teacher's own single-mutex-guarded shared map idiom
// (onlineLock guarding currentOnline in handler.go).
type MemoryChestRegistry struct {
	mu      sync.Mutex
	entries map[Coordinate]ChestEntry
	persist func(ChestEntry)
}

// NewMemoryChestRegistry builds an empty registry. persist, if non-nil, is
// called after every mutation with the row's new state — tests use it to
// assert persistence happens at every lock transition (spec.md §3
// invariant).
func NewMemoryChestRegistry(persist func(ChestEntry)) *MemoryChestRegistry {
	return &MemoryChestRegistry{entries: make(map[Coordinate]ChestEntry), persist: persist}
}

func (r *MemoryChestRegistry) Lookup(c Coordinate) (ChestEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[c]
	return e, ok
}

func (r *MemoryChestRegistry) IsLocked(c Coordinate) bool {
	e, ok := r.Lookup(c)
	return ok && e.Locked
}

func (r *MemoryChestRegistry) CanOpen(player string, c Coordinate) bool {
	e, ok := r.Lookup(c)
	if !ok || !e.Locked {
		return true
	}
	return e.Owner == player
}

func (r *MemoryChestRegistry) Adjacent(c Coordinate) (ChestEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range c.Neighbors() {
		if e, ok := r.entries[n]; ok {
			return e, true
		}
	}
	return ChestEntry{}, false
}

func (r *MemoryChestRegistry) set(e ChestEntry) {
	r.mu.Lock()
	r.entries[e.Coord] = e
	r.mu.Unlock()
	if r.persist != nil {
		r.persist(e)
	}
}

func (r *MemoryChestRegistry) AddOpen(c Coordinate) error {
	r.set(ChestEntry{Coord: c})
	return nil
}

func (r *MemoryChestRegistry) GiveLock(c Coordinate, owner, displayName string) error {
	r.set(ChestEntry{Coord: c, Locked: true, Owner: owner, DisplayName: displayName})
	return nil
}

func (r *MemoryChestRegistry) Release(c Coordinate) error {
	r.mu.Lock()
	delete(r.entries, c)
	r.mu.Unlock()
	if r.persist != nil {
		r.persist(ChestEntry{Coord: c})
	}
	return nil
}

func (r *MemoryChestRegistry) Unlock(c Coordinate) error {
	e, ok := r.Lookup(c)
	if !ok {
		return fmt.Errorf("collab: unlock: no chest at %+v", c)
	}
	e.Locked = false
	e.Owner = ""
	r.set(e)
	return nil
}

func (r *MemoryChestRegistry) Rename(c Coordinate, displayName string) error {
	e, ok := r.Lookup(c)
	if !ok {
		return fmt.Errorf("collab: rename: no chest at %+v", c)
	}
	e.DisplayName = displayName
	r.set(e)
	return nil
}

// MemoryBotRegistry is a reference BotRegistry backed by a set.
type MemoryBotRegistry struct {
	mu   sync.RWMutex
	bots map[string]bool
}

func NewMemoryBotRegistry(names ...string) *MemoryBotRegistry {
	b := &MemoryBotRegistry{bots: make(map[string]bool, len(names))}
	for _, n := range names {
		b.bots[n] = true
	}
	return b
}

func (b *MemoryBotRegistry) IsBot(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bots[name]
}

func (b *MemoryBotRegistry) Add(name string) {
	b.mu.Lock()
	b.bots[name] = true
	b.mu.Unlock()
}

// MemoryEntityDirectory is a reference EntityDirectory backed by a map kept
// current by the host as Sessions are created and named.
type MemoryEntityDirectory struct {
	mu      sync.RWMutex
	byEntity map[int32]string
}

func NewMemoryEntityDirectory() *MemoryEntityDirectory {
	return &MemoryEntityDirectory{byEntity: make(map[int32]string)}
}

func (d *MemoryEntityDirectory) Set(entityID int32, name string) {
	d.mu.Lock()
	d.byEntity[entityID] = name
	d.mu.Unlock()
}

func (d *MemoryEntityDirectory) Remove(entityID int32) {
	d.mu.Lock()
	delete(d.byEntity, entityID)
	d.mu.Unlock()
}

func (d *MemoryEntityDirectory) PlayerNameByEntityID(id int32) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.byEntity[id]
	return name, ok
}

// AllowAllPermissions is a reference PermissionConfig that allows every
// action except where a per-player god-mode or per-group denial has been
// recorded — enough for tests and cmd/minewatch without a real groups
// store.
type AllowAllPermissions struct {
	mu      sync.RWMutex
	denied  map[string]bool // group -> deny everything
	gods    map[string]bool
	instant bool
}

func NewAllowAllPermissions() *AllowAllPermissions {
	return &AllowAllPermissions{denied: map[string]bool{}, gods: map[string]bool{}}
}

func (p *AllowAllPermissions) Allow(group string, _ BlockAction, _ Coordinate, _ int16) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.denied[group]
}

func (p *AllowAllPermissions) Deny(group string) {
	p.mu.Lock()
	p.denied[group] = true
	p.mu.Unlock()
}

func (p *AllowAllPermissions) InstantDestroy() bool { return p.instant }

func (p *AllowAllPermissions) SetInstantDestroy(v bool) { p.instant = v }

func (p *AllowAllPermissions) GodMode(player string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gods[player]
}

func (p *AllowAllPermissions) SetGodMode(player string, v bool) {
	p.mu.Lock()
	if v {
		p.gods[player] = true
	} else {
		delete(p.gods, player)
	}
	p.mu.Unlock()
}

// NoopEventHost discards every event; used when EnableEvents is false or no
// real host is wired.
type NoopEventHost struct{}

func (NoopEventHost) PlayerJoined(string)       {}
func (NoopEventHost) PlayerLeft(string, string) {}

// PassthroughTranslator returns key formatted with args, for tests and
// deployments with no real translation catalogue.
type PassthroughTranslator struct{}

func (PassthroughTranslator) Translate(key string, args ...string) string {
	out := key
	for _, a := range args {
		out += " " + a
	}
	return out
}

// MemoryAuthenticator is a reference Authenticator. Guest names are
// generated sequentially under a single mutex, the same
// shared-counter-guarded-by-one-lock shape the teacher uses for
// currentOnline in startPlayerCountSimulator. Names are not checked for
// collisions; the only randomness is the optional counter start offset of
// NewMemoryAuthenticatorSeeded, drawn from crypto/rand.
type MemoryAuthenticator struct {
	mu       sync.Mutex
	guestNum int
	pending  map[string]AuthRequest
	allowGuest bool
	mcUp     bool
}

func NewMemoryAuthenticator(allowGuest bool) *MemoryAuthenticator {
	return &MemoryAuthenticator{pending: make(map[string]AuthRequest), allowGuest: allowGuest, mcUp: true}
}

func (a *MemoryAuthenticator) AddPending(ip string, req AuthRequest) {
	a.mu.Lock()
	a.pending[ip] = req
	a.mu.Unlock()
}

func (a *MemoryAuthenticator) GetAuthRequest(ip string) (AuthRequest, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	req, ok := a.pending[ip]
	if ok {
		delete(a.pending, ip)
	}
	return req, ok
}

func (a *MemoryAuthenticator) CompleteLogin(req AuthRequest, sess *session.Session) error {
	sess.SetName(req.Name, false)
	return nil
}

// GetFreeGuestName hands out sequential Guest1, Guest2, … names (spec.md
// §8 scenario S1: "guest flow assigns Guest1"). The counter is the only
// state; it starts at zero for NewMemoryAuthenticator, and at a
// crypto/rand-drawn offset for NewMemoryAuthenticatorSeeded.
func (a *MemoryAuthenticator) GetFreeGuestName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.guestNum++
	return fmt.Sprintf("Guest%d", a.guestNum)
}

// secureSeed returns a crypto/rand byte, grounding guestNum's optional
// non-zero start (NewMemoryAuthenticatorSeeded) in the teacher's
// getSecureRandomInt idiom (handler.go/motion.go use crypto/rand, never
// math/rand, even for non-cryptographic jitter).
func secureSeed() int {
	var b [1]byte
	rand.Read(b[:])
	return int(b[0])
}

// NewMemoryAuthenticatorSeeded is like NewMemoryAuthenticator but starts the
// guest counter at a random offset instead of zero, so guest names don't
// collide across separate server processes sharing a persistence backend
// that was never flushed between restarts.
func NewMemoryAuthenticatorSeeded(allowGuest bool) *MemoryAuthenticator {
	a := NewMemoryAuthenticator(allowGuest)
	a.guestNum = secureSeed()
	return a
}

func (a *MemoryAuthenticator) AllowGuestJoin() bool { return a.allowGuest }

func (a *MemoryAuthenticator) UseCustAuth(*session.Session) bool { return false }

func (a *MemoryAuthenticator) OnlineAuthenticate(*session.Session) error { return nil }

func (a *MemoryAuthenticator) IsMinecraftUp() bool { return a.mcUp }

func (a *MemoryAuthenticator) SetMinecraftUp(v bool) { a.mcUp = v }
