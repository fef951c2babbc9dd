package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/madcrow/auth-service/internal/models"
)

// limiterKey — ключ счётчика попыток входа. Identity — e-mail в нижнем
// регистре; IP клиента в ключе не участвует и пишется только в лог.
func limiterKey(identity string) string {
	return "login:" + strings.ToLower(strings.TrimSpace(identity))
}

// CheckLoginLimit возвращает текущее состояние лимита для identity,
// не изменяя счётчик.
func (s *Service) CheckLoginLimit(ctx context.Context, identity string) (*models.RateLimitInfo, error) {
	const op = "service.ratelimit.CheckLoginLimit"

	count, ttl, err := s.attempts.Status(ctx, limiterKey(identity))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.limitInfo(count, int64(ttl.Seconds())), nil
}

// ensureNotLimited — гард перед проверкой учётных данных: если identity
// уже исчерпала лимит, вход отклоняется до любой работы с паролем.
func (s *Service) ensureNotLimited(ctx context.Context, identity string) error {
	const op = "service.ratelimit.ensureNotLimited"

	count, _, err := s.attempts.Status(ctx, limiterKey(identity))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if count >= int64(s.rate.MaxAttempts) {
		return fmt.Errorf("%s: %w", op, ErrRateLimited)
	}

	return nil
}

// recordLoginFailure учитывает неудачную попытку входа. Первая попытка
// открывает окно; попытки внутри окна только наращивают счётчик.
func (s *Service) recordLoginFailure(ctx context.Context, identity string) error {
	const op = "service.ratelimit.recordLoginFailure"

	if _, _, err := s.attempts.Incr(ctx, limiterKey(identity), s.rate.Window); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// recordLoginSuccess сбрасывает счётчик неудач identity, если политика
// success_clears включена.
func (s *Service) recordLoginSuccess(ctx context.Context, identity string) error {
	const op = "service.ratelimit.recordLoginSuccess"

	if !s.rate.SuccessClears {
		return nil
	}

	if err := s.attempts.Reset(ctx, limiterKey(identity)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// limitInfo собирает снимок состояния лимита. remaining не уходит ниже нуля,
// даже если счётчик перерос лимит; TimeUntilReset заполняется только
// для исчерпанного лимита.
func (s *Service) limitInfo(count, resetSeconds int64) *models.RateLimitInfo {
	remaining := s.rate.MaxAttempts - int(count)
	if remaining < 0 {
		remaining = 0
	}

	info := &models.RateLimitInfo{
		IsLimited:         count >= int64(s.rate.MaxAttempts),
		RemainingAttempts: remaining,
		MaxAttempts:       s.rate.MaxAttempts,
		TimeWindow:        int64(s.rate.Window.Seconds()),
	}

	if info.IsLimited {
		info.TimeUntilReset = &resetSeconds
	}

	return info
}
