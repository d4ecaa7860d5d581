package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/riskibarqy/salabet/internal/domain/leaderboard"
	"github.com/riskibarqy/salabet/internal/domain/prediction"
	"github.com/riskibarqy/salabet/internal/domain/room"
	"github.com/riskibarqy/salabet/internal/domain/roomfeed"
	"github.com/riskibarqy/salabet/internal/platform/cache"
	idgen "github.com/riskibarqy/salabet/internal/platform/id"
	"github.com/riskibarqy/salabet/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type LeaderboardConfig struct {
	WriteAttempts int
	RetryDelay    time.Duration
}

type LeaderboardService struct {
	roomRepo        room.Repository
	predictionRepo  prediction.Repository
	leaderboardRepo leaderboard.Repository
	feedRepo        roomfeed.Repository
	cache           *cache.Store
	idGen           idgen.Generator
	cfg             LeaderboardConfig
	logger          *logging.Logger
	now             func() time.Time
}

func NewLeaderboardService(
	roomRepo room.Repository,
	predictionRepo prediction.Repository,
	leaderboardRepo leaderboard.Repository,
	feedRepo roomfeed.Repository,
	cacheStore *cache.Store,
	idGen idgen.Generator,
	cfg LeaderboardConfig,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = idgen.NewUUIDGenerator()
	}
	// retry-go treats zero attempts as unlimited.
	if cfg.WriteAttempts < 1 {
		cfg.WriteAttempts = 1
	}

	return &LeaderboardService{
		roomRepo:        roomRepo,
		predictionRepo:  predictionRepo,
		leaderboardRepo: leaderboardRepo,
		feedRepo:        feedRepo,
		cache:           cacheStore,
		idGen:           idGen,
		cfg:             cfg,
		logger:          logger,
		now:             time.Now,
	}
}

// Recalculate rebuilds a room leaderboard from the WON predictions of its members.
func (s *LeaderboardService) Recalculate(ctx context.Context, roomID string, period time.Time) ([]leaderboard.Entry, error) {
	roomID = strings.TrimSpace(roomID)
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Recalculate", attribute.String("room.id", roomID))
	defer span.End()

	if roomID == "" {
		return nil, fmt.Errorf("%w: room id is required", ErrInvalidInput)
	}
	if period.IsZero() {
		period = s.now()
	}
	period = leaderboard.PeriodOf(period)

	members, err := s.roomRepo.ListMembers(ctx, roomID)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list room members room=%s: %w", roomID, err)
	}
	totals, err := s.predictionRepo.SumWonPointsByRoom(ctx, roomID)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("sum won points room=%s: %w", roomID, err)
	}

	entries := leaderboard.Rank(roomID, period, members, totals)

	err = retry.Do(
		func() error {
			return s.leaderboardRepo.ReplaceRoomPeriod(ctx, roomID, period, entries)
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.cfg.WriteAttempts)),
		retry.Delay(s.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			s.logger.WarnContext(ctx, "retry leaderboard write",
				"room_id", roomID,
				"attempt", attempt+1,
				"error", err,
			)
		}),
	)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("replace leaderboard room=%s: %w", roomID, err)
	}

	if s.cache != nil {
		s.cache.DeletePrefix(ctx, leaderboardCachePrefix(roomID))
	}
	s.announceLeader(ctx, roomID, members, entries)

	s.logger.DebugContext(ctx, "leaderboard recalculated",
		"room_id", roomID,
		"period", leaderboard.FormatPeriod(period),
		"entries", len(entries),
	)
	return entries, nil
}

func (s *LeaderboardService) List(ctx context.Context, roomID string, period time.Time) ([]leaderboard.Entry, error) {
	roomID = strings.TrimSpace(roomID)
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.List", attribute.String("room.id", roomID))
	defer span.End()

	if roomID == "" {
		return nil, fmt.Errorf("%w: room id is required", ErrInvalidInput)
	}
	if period.IsZero() {
		period = s.now()
	}
	period = leaderboard.PeriodOf(period)

	if s.cache == nil {
		entries, err := s.leaderboardRepo.ListByRoom(ctx, roomID, period)
		if err != nil {
			return nil, fmt.Errorf("list leaderboard room=%s: %w", roomID, err)
		}
		return entries, nil
	}

	value, err := s.cache.GetOrLoad(ctx, leaderboardCacheKey(roomID, period), func(ctx context.Context) (any, error) {
		entries, err := s.leaderboardRepo.ListByRoom(ctx, roomID, period)
		if err != nil {
			return nil, err
		}
		return entries, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list leaderboard room=%s: %w", roomID, err)
	}
	entries, _ := value.([]leaderboard.Entry)
	return append([]leaderboard.Entry(nil), entries...), nil
}

// announceLeader posts a new_leader message when the top scorer differs from the last announced one.
func (s *LeaderboardService) announceLeader(ctx context.Context, roomID string, members []room.Membership, entries []leaderboard.Entry) {
	if s.feedRepo == nil || len(entries) == 0 || entries[0].Points <= 0 {
		return
	}
	leader := entries[0]

	latest, found, err := s.feedRepo.LatestByKind(ctx, roomID, roomfeed.KindNewLeader)
	if err != nil {
		s.logger.WarnContext(ctx, "load latest leader notification failed", "room_id", roomID, "error", err)
		return
	}
	if found && latest.UserID == leader.UserID {
		return
	}

	name := leader.UserID
	for _, m := range members {
		if m.UserID == leader.UserID {
			name = m.DisplayName()
			break
		}
	}

	notificationID, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate notification id failed", "room_id", roomID, "error", err)
		return
	}
	if err := s.feedRepo.Create(ctx, roomfeed.Notification{
		ID:        notificationID,
		RoomID:    roomID,
		Kind:      roomfeed.KindNewLeader,
		Message:   fmt.Sprintf("New leader: %s with %d points", name, leader.Points),
		UserID:    leader.UserID,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		s.logger.WarnContext(ctx, "create leader notification failed", "room_id", roomID, "user_id", leader.UserID, "error", err)
	}
}

func leaderboardCachePrefix(roomID string) string {
	return "leaderboard:" + roomID + ":"
}

func leaderboardCacheKey(roomID string, period time.Time) string {
	return leaderboardCachePrefix(roomID) + leaderboard.FormatPeriod(period)
}
