package game

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vaamonde-rodri/uno-game/internal/engine"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// Store is the in-memory registry of live sessions, keyed by join code.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	log     logrus.FieldLogger
	history ActionLogger
	results ResultSaver
}

// NewStore builds an empty registry. history and results may be nil, in which
// case action history and result persistence are disabled.
func NewStore(log logrus.FieldLogger, history ActionLogger, results ResultSaver) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		log:      log,
		history:  history,
		results:  results,
	}
}

// Create opens a new session with a fresh join code and seats its creator.
func (s *Store) Create(creatorName string) (*Session, *engine.Player, error) {
	seed, err := randomSeed()
	if err != nil {
		return nil, nil, fmt.Errorf("seeding game: %w", err)
	}
	eng := engine.New(rand.New(rand.NewSource(seed)))

	s.mu.Lock()
	code, err := s.unusedCode()
	if err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	sess := newSession(code, eng, s.log, s.history, s.results)
	s.sessions[code] = sess
	s.mu.Unlock()

	creator, err := sess.Join(creatorName)
	if err != nil {
		s.mu.Lock()
		delete(s.sessions, code)
		s.mu.Unlock()
		return nil, nil, err
	}
	sess.CreatorID = creator.ID

	s.log.WithFields(logrus.Fields{
		"game_code": code,
		"game_id":   sess.ID(),
	}).Info("game created")
	return sess, creator, nil
}

// Get looks up a session by its join code. Codes are case-insensitive.
func (s *Store) Get(code string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, engine.NewError(engine.KindNotFound, "no game with code %q", code)
	}
	return sess, nil
}

// unusedCode generates a join code not yet in the registry. Callers must hold
// the store mutex.
func (s *Store) unusedCode() (string, error) {
	for {
		code, err := randomCode()
		if err != nil {
			return "", fmt.Errorf("generating game code: %w", err)
		}
		if _, taken := s.sessions[code]; !taken {
			return code, nil
		}
	}
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := cryptorand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

func randomSeed() (int64, error) {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}
