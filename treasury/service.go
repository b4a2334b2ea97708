package treasury

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/db"
	"github.com/abya-university/ABYA-Ecosystem-sub001/events"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/monitoring"
	"github.com/abya-university/ABYA-Ecosystem-sub001/store"
	"github.com/abya-university/ABYA-Ecosystem-sub001/types"
)

const (
	DefaultQuorum       = 3
	DefaultExpiryWindow = 30 * 24 * time.Hour
	MaxPurposeLength    = 1024
)

var DefaultCategories = []string{"marketing", "development", "community", "operations"}

// Service owns the treasury ledger. Every mutating operation holds mu for
// its whole duration and commits through a single batch, so operations are
// applied one at a time and either fully or not at all.
type Service struct {
	store      store.TreasuryStore
	txm        *db.DBTxManager
	bus        *events.EventBus
	clock      Clock
	quorum     QuorumPolicy
	expiry     time.Duration
	categories map[string]bool

	mu sync.Mutex
}

type Option func(*Service)

func WithQuorumPolicy(p QuorumPolicy) Option {
	return func(s *Service) { s.quorum = p }
}

func WithExpiryWindow(d time.Duration) Option {
	return func(s *Service) { s.expiry = d }
}

func WithCategories(categories ...string) Option {
	return func(s *Service) {
		s.categories = make(map[string]bool, len(categories))
		for _, c := range categories {
			s.categories[c] = true
		}
	}
}

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithEventBus(bus *events.EventBus) Option {
	return func(s *Service) { s.bus = bus }
}

func NewService(st store.TreasuryStore, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}

	s := &Service{
		store:  st,
		txm:    db.NewDBTxManager(st.Provider()),
		clock:  SystemClock{},
		quorum: FixedQuorum(DefaultQuorum),
		expiry: DefaultExpiryWindow,
	}
	WithCategories(DefaultCategories...)(s)
	for _, opt := range opts {
		opt(s)
	}

	if s.expiry <= 0 {
		return nil, fmt.Errorf("expiry window must be positive, got %s", s.expiry)
	}
	if len(s.categories) == 0 {
		return nil, fmt.Errorf("at least one allocation category is required")
	}

	logx.Info("TREASURY", fmt.Sprintf("treasury service ready: quorum=%s expiry=%s categories=%d",
		s.quorum, s.expiry, len(s.categories)))
	return s, nil
}

func (s *Service) Clock() Clock {
	return s.clock
}

func (s *Service) ExpiryWindow() time.Duration {
	return s.expiry
}

func (s *Service) QuorumPolicy() QuorumPolicy {
	return s.quorum
}

// Genesis seeds an empty treasury
type Genesis struct {
	Admin          common.Address
	Trustees       []common.Address
	Treasurers     []common.Address
	InitialReserve *uint256.Int
}

// Bootstrap applies genesis once. A treasury that already has an admin is
// left untouched.
func (s *Service) Bootstrap(g Genesis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.Admin.IsZero() {
		return fmt.Errorf("genesis admin is required")
	}
	admins, err := s.store.CountRoleMembers(string(RoleAdmin))
	if err != nil {
		return err
	}
	if admins > 0 {
		logx.Info("TREASURY", "treasury already bootstrapped, skipping genesis")
		return nil
	}

	now := s.clock.Now()
	pool, err := s.loadPool()
	if err != nil {
		return err
	}
	if g.InitialReserve != nil {
		pool.ReserveFunds = new(uint256.Int).Set(g.InitialReserve)
	}

	err = s.txm.WithBatch(func(batch db.DatabaseBatch) error {
		grants := []*types.RoleGrant{{Role: string(RoleAdmin), Account: g.Admin, GrantedBy: g.Admin, GrantedAt: now}}
		for _, t := range g.Trustees {
			grants = append(grants, &types.RoleGrant{Role: string(RoleTrustee), Account: t, GrantedBy: g.Admin, GrantedAt: now})
		}
		for _, t := range g.Treasurers {
			grants = append(grants, &types.RoleGrant{Role: string(RoleTreasurer), Account: t, GrantedBy: g.Admin, GrantedAt: now})
		}
		for _, grant := range grants {
			if grant.Account.IsZero() {
				return ErrInvalidAddress
			}
			if err := s.store.PutRoleGrant(batch, grant); err != nil {
				return err
			}
		}
		return s.store.PutPoolState(batch, pool)
	})
	if err != nil {
		return fmt.Errorf("failed to apply genesis: %w", err)
	}

	monitoring.SetTrusteeCount(len(g.Trustees))
	monitoring.SetReserveFunds(pool.ReserveFunds)
	logx.Info("TREASURY", fmt.Sprintf("genesis applied: admin=%s trustees=%d treasurers=%d reserve=%s",
		g.Admin, len(g.Trustees), len(g.Treasurers), pool.ReserveFunds.Dec()))
	return nil
}

// loadPool returns the persisted pool with any newly configured categories added
func (s *Service) loadPool() (*types.PoolState, error) {
	pool, err := s.store.GetPoolState()
	if errors.Is(err, store.ErrNotFound) {
		pool = types.NewPoolState(nil)
	} else if err != nil {
		return nil, err
	}
	for c := range s.categories {
		if _, ok := pool.CategorySpend[c]; !ok {
			pool.CategorySpend[c] = uint256.NewInt(0)
		}
	}
	return pool, nil
}

func (s *Service) requiredApprovals() (int, error) {
	trustees, err := s.store.CountRoleMembers(string(RoleTrustee))
	if err != nil {
		return 0, err
	}
	return s.quorum.Required(trustees), nil
}

func (s *Service) publish(evs ...events.TreasuryEvent) {
	if s.bus == nil {
		return
	}
	for _, ev := range evs {
		s.bus.Publish(ev)
	}
}

// observe records a rejected operation; deferred with a pointer to the
// named error result
func (s *Service) observe(op string, errp *error) {
	if *errp == nil {
		return
	}
	code := CodeOf(*errp)
	monitoring.RecordRejectedOperation(op, string(code))
	if code == CodeInternal {
		logx.Error("TREASURY", op, " failed: ", *errp)
		return
	}
	logx.Warn("TREASURY", op, " rejected: ", *errp)
}

func addChecked(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrAmountOverflow
	}
	return sum, nil
}
