package services

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"freelance-marketplace/logger"
	"freelance-marketplace/models"

	"github.com/gofiber/fiber/v2"
)

// UnlockLister is the read side the stream polls.
type UnlockLister interface {
	ListUnlocked(ctx context.Context, userID string) ([]models.UnlockedAchievement, error)
}

// UnlockStream pushes new unlock records to a connected client over SSE.
type UnlockStream struct {
	lister   UnlockLister
	interval time.Duration
}

func NewUnlockStream(lister UnlockLister) *UnlockStream {
	return &UnlockStream{lister: lister, interval: 2 * time.Second}
}

// StreamUserAchievementsSSE emits "event: achievement" for every record
// unlocked after the client connected. Each tick ends with a keepalive
// comment so a departed client is noticed on the next flush.
func (s *UnlockStream) StreamUserAchievementsSSE(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return fiber.ErrUnauthorized
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	done := c.Context().Done()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx := context.Background()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		var cursor unlockCursor
		if _, err := s.poll(ctx, userID, &cursor); err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("SSE init error")
		}

		if !keepalive(w) {
			return
		}

		for {
			select {
			case <-ticker.C:
				fresh, err := s.poll(ctx, userID, &cursor)
				if err != nil {
					logger.Warn().Err(err).Str("user_id", userID).Msg("SSE poll error")
				}
				for _, u := range fresh {
					if err := writeAchievementEvent(w, u); err != nil {
						return
					}
				}
				if !keepalive(w) {
					logger.Debug().Str("user_id", userID).Msg("SSE client disconnected")
					return
				}

			case <-done:
				return
			}
		}
	})

	return nil
}

// unlockCursor is the newest unlocked_at already delivered. Until ready, no
// event is emitted: the first successful read only marks the history as seen.
type unlockCursor struct {
	at    time.Time
	ready bool
}

func (s *UnlockStream) poll(ctx context.Context, userID string, cur *unlockCursor) ([]models.UnlockedAchievement, error) {
	all, err := s.lister.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cur.ready {
		cur.at = latestUnlock(all)
		cur.ready = true
		return nil, nil
	}
	fresh := unlockedSince(all, cur.at)
	if len(fresh) > 0 {
		cur.at = fresh[len(fresh)-1].UnlockedAt
	}
	return fresh, nil
}

func keepalive(w *bufio.Writer) bool {
	if _, err := w.WriteString(":\n\n"); err != nil {
		return false
	}
	return w.Flush() == nil
}

func writeAchievementEvent(w *bufio.Writer, u models.UnlockedAchievement) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: achievement\ndata: %s\n\n", payload)
	return err
}

func latestUnlock(list []models.UnlockedAchievement) time.Time {
	var latest time.Time
	for _, u := range list {
		if u.UnlockedAt.After(latest) {
			latest = u.UnlockedAt
		}
	}
	return latest
}

// unlockedSince returns the records strictly after cursor, oldest first.
func unlockedSince(list []models.UnlockedAchievement, cursor time.Time) []models.UnlockedAchievement {
	var out []models.UnlockedAchievement
	for _, u := range list {
		if u.UnlockedAt.After(cursor) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnlockedAt.Before(out[j].UnlockedAt) })
	return out
}
