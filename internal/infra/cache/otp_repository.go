package cache

import (
	"context"
	"fmt"
	"time"

	"agrimarket/internal/domain/entity"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	fieldHash     = "hash"
	fieldAttempts = "attempts_left"
)

// consumeScript deletes the record when it holds the submitted hash, so two
// concurrent verifications of the same code cannot both succeed. A mismatch
// spends one attempt and the record is dropped once none are left.
var consumeScript = redis.NewScript(`
local stored = redis.call("HGET", KEYS[1], "hash")
if not stored then
	return 0
end
if stored == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
if redis.call("HINCRBY", KEYS[1], "attempts_left", -1) <= 0 then
	redis.call("DEL", KEYS[1])
end
return 0
`)

type otpRepository struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewOTPRepository stores OTP hashes under otp:<purpose>:<userID> with the code's remaining lifetime as TTL.
func NewOTPRepository(client *redis.Client) repository.OTPRepository {
	return &otpRepository{client: client, now: time.Now}
}

func otpKey(userID uuid.UUID, purpose entity.OTPPurpose) string {
	return fmt.Sprintf("otp:%s:%s", purpose, userID)
}

func (r *otpRepository) Save(ctx context.Context, otp *entity.OneTimePassword) error {
	ttl := otp.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("otp already expired")
	}

	if otp.MaxAttempts <= 0 {
		return errors.New("otp needs at least one attempt")
	}

	key := otpKey(otp.UserID, otp.Purpose)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldHash, otp.CodeHash, fieldAttempts, otp.MaxAttempts)
		pipe.Expire(ctx, key, ttl)

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to store otp")
	}

	return nil
}

func (r *otpRepository) Consume(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, codeHash string) (bool, error) {
	deleted, err := consumeScript.Run(ctx, r.client, []string{otpKey(userID, purpose)}, codeHash).Int64()
	if err != nil {
		return false, errors.Wrap(err, "failed to consume otp")
	}

	return deleted == 1, nil
}

type actionGrantRepository struct {
	client redis.Cmdable
}

// NewActionGrantRepository records action verifications under action-grant:<userID>.
func NewActionGrantRepository(client *redis.Client) repository.ActionGrantRepository {
	return &actionGrantRepository{client: client}
}

func actionGrantKey(userID uuid.UUID) string {
	return "action-grant:" + userID.String()
}

func (r *actionGrantRepository) Grant(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	if err := r.client.Set(ctx, actionGrantKey(userID), "1", ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to store action grant")
	}

	return nil
}

func (r *actionGrantRepository) HasGrant(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := r.client.Exists(ctx, actionGrantKey(userID)).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to check action grant")
	}

	return n == 1, nil
}

func (r *actionGrantRepository) Revoke(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, actionGrantKey(userID)).Err(); err != nil {
		return errors.Wrap(err, "failed to revoke action grant")
	}

	return nil
}
