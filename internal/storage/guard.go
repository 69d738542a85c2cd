package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Token is the persisted, revocable grant for a user-chosen output
// directory. Deleting the token file or the directory revokes the grant.
type Token struct {
	Path     string    `json:"path"`
	Nonce    string    `json:"nonce"`
	IssuedAt time.Time `json:"issuedAt"`
}

// SaveToken persists a grant for dir at file.
func SaveToken(file, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	tok := Token{Path: abs, Nonce: randomNonce(), IssuedAt: time.Now()}
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	return os.WriteFile(file, b, 0o600)
}

func randomNonce() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Resolution is the outcome of resolving the output directory.
type Resolution struct {
	Dir string
	// Fallback is true when a token existed but was stale and the default
	// directory was used instead.
	Fallback bool
}

// Scope is a live, acquired grant on a directory. Release must be called
// exactly once; Guard.WithScope does this on every exit path.
type Scope struct {
	Dir      string
	guard    *Guard
	sentinel *os.File
	once     sync.Once
}

// Release ends the scoped access. Safe to call twice; the second call is a
// no-op.
func (s *Scope) Release() {
	s.once.Do(func() {
		if s.sentinel != nil {
			name := s.sentinel.Name()
			s.sentinel.Close()
			os.Remove(name)
		}
		s.guard.mu.Lock()
		s.guard.releases++
		s.guard.mu.Unlock()
	})
}

// Guard resolves the persisted token into a usable directory and brackets
// writes with acquire/release. Acquire and release are always paired,
// including when the wrapped write fails or panics.
type Guard struct {
	log        *slog.Logger
	defaultDir string
	tokenFile  string

	mu       sync.Mutex
	acquires uint64
	releases uint64
}

// NewGuard creates a guard. tokenFile may be empty, in which case the
// default directory is always used.
func NewGuard(log *slog.Logger, defaultDir, tokenFile string) *Guard {
	return &Guard{log: log, defaultDir: defaultDir, tokenFile: tokenFile}
}

// Resolve maps the persisted token (if any) to the directory writes should
// target. A missing, unreadable, or revoked token falls back to the default
// directory; the fallback is deliberate policy and is logged because it
// silently redirects output away from the user's chosen location.
func (g *Guard) Resolve() Resolution {
	if g.tokenFile == "" {
		return Resolution{Dir: g.defaultDir}
	}
	b, err := os.ReadFile(g.tokenFile)
	if err != nil {
		if !os.IsNotExist(err) {
			g.log.Warn("output token unreadable, using default directory",
				"token", g.tokenFile, "default", g.defaultDir, "error", err)
			return Resolution{Dir: g.defaultDir, Fallback: true}
		}
		return Resolution{Dir: g.defaultDir}
	}
	var tok Token
	if err := json.Unmarshal(b, &tok); err != nil {
		g.log.Warn("output token corrupt, using default directory",
			"token", g.tokenFile, "default", g.defaultDir, "error", err)
		return Resolution{Dir: g.defaultDir, Fallback: true}
	}
	info, err := os.Stat(tok.Path)
	if err != nil || !info.IsDir() {
		g.log.Warn("granted directory gone, using default directory",
			"granted", tok.Path, "default", g.defaultDir)
		return Resolution{Dir: g.defaultDir, Fallback: true}
	}
	return Resolution{Dir: tok.Path}
}

// Acquire resolves the target directory, ensures it exists, and begins
// scoped access. The caller owns the returned Scope and must Release it.
func (g *Guard) Acquire() (*Scope, error) {
	res := g.Resolve()
	if err := os.MkdirAll(res.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	sentinel, err := os.CreateTemp(res.Dir, ".scope-*")
	if err != nil {
		return nil, fmt.Errorf("begin scoped access: %w", err)
	}
	g.mu.Lock()
	g.acquires++
	g.mu.Unlock()
	return &Scope{Dir: res.Dir, guard: g, sentinel: sentinel}, nil
}

// WithScope runs one write operation inside an acquired scope, releasing it
// on every exit path.
func (g *Guard) WithScope(fn func(dir string) error) error {
	scope, err := g.Acquire()
	if err != nil {
		return err
	}
	defer scope.Release()
	return fn(scope.Dir)
}

// Counts reports acquire/release totals; teardown checks use it to assert
// 1:1 pairing.
func (g *Guard) Counts() (acquires, releases uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.acquires, g.releases
}
