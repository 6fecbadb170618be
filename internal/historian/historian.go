// internal/historian/historian.go
//
// The historian is an asynchronous worker that pops turn records from the
// Redis queue the game server publishes to and persists them to Postgres in
// batches. It also watches for games that stop producing actions and marks
// them abandoned.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/jason-s-yu/codenames/internal/cache"
	"github.com/jason-s-yu/codenames/internal/database"
)

// Service encapsulates the Redis + DB logic for capturing turn records.
type Service struct {
	redisClient *redis.Client
	queueName   string
	batchSize   int
	flushDelay  time.Duration
	inactivity  time.Duration

	lastActivity sync.Map // map[uuid.UUID]time.Time

	batchMu  sync.Mutex
	batch    []cache.TurnRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewService constructs a Service from environment variables or defaults:
// HISTORIAN_BATCH_SIZE, HISTORIAN_FLUSH_MS, HISTORIAN_QUEUE_NAME,
// GAME_INACTIVITY_TIMEOUT_SEC, REDIS_ADDR.
func NewService() *Service {
	batchSize := getEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := getEnvInt("HISTORIAN_FLUSH_MS", 500)
	inactivitySec := getEnvInt("GAME_INACTIVITY_TIMEOUT_SEC", 600)

	rdb := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		redisClient: rdb,
		queueName:   getEnv("HISTORIAN_QUEUE_NAME", cache.DefaultQueueName),
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		inactivity:  time.Duration(inactivitySec) * time.Second,
		batch:       make([]cache.TurnRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects to the database and blocks on the two worker loops until
// Stop is called.
func (s *Service) Run() {
	database.ConnectDB()

	go s.readRedisLoop()
	go s.inactivityLoop()

	log.Info("codenames-historian service started")
	<-s.ctx.Done()
	log.Info("codenames-historian shutting down")
}

// Stop cancels the worker loops and flushes what remains.
func (s *Service) Stop() {
	s.cancelFn()
	s.flushBatchToDB()
}

// readRedisLoop continuously BLPops records from the queue, accumulating a
// batch that is flushed on size or on a timer.
func (s *Service) readRedisLoop() {
	ticker := time.NewTicker(s.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-ticker.C:
			s.flushBatchToDB()

		default:
			// BLPop with a short timeout so context cancellation is noticed.
			res, err := s.redisClient.BLPop(s.ctx, 3*time.Second, s.queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				if s.ctx.Err() != nil {
					return
				}
				log.Errorf("BLPop: %v", err)
				continue
			}
			if len(res) < 2 {
				continue
			}

			var record cache.TurnRecord
			if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
				log.Warnf("invalid turn record: %v", err)
				continue
			}

			s.lastActivity.Store(record.GameID, time.Now())
			s.appendToBatch(record)
		}
	}
}

// appendToBatch adds a record to the in-memory batch and flushes if the
// threshold is reached.
func (s *Service) appendToBatch(record cache.TurnRecord) {
	s.batchMu.Lock()
	flush := false
	s.batch = append(s.batch, record)
	if len(s.batch) >= s.batchSize {
		flush = true
	}
	s.batchMu.Unlock()

	if flush {
		s.flushBatchToDB()
	}
}

// flushBatchToDB writes the current batch to game_turns in one transaction.
func (s *Service) flushBatchToDB() {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	batchCopy := make([]cache.TurnRecord, len(s.batch))
	copy(batchCopy, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.InsertTurnRecords(ctx, batchCopy); err != nil {
		log.Errorf("failed to flush %d turn records: %v", len(batchCopy), err)
	}
}

// inactivityLoop periodically marks games abandoned when no action has
// arrived within the inactivity window.
func (s *Service) inactivityLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.inactivity)
			s.lastActivity.Range(func(key, value interface{}) bool {
				gameID, ok := key.(uuid.UUID)
				if !ok {
					return true
				}
				last, ok := value.(time.Time)
				if !ok || last.After(cutoff) {
					return true
				}
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := database.MarkGameAbandoned(ctx, gameID); err != nil {
					log.Warnf("mark abandoned %s: %v", gameID, err)
				}
				cancel()
				s.lastActivity.Delete(gameID)
				return true
			})
		}
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
