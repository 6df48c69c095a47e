// internal/service/account/application/service.go
package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"zirako/internal/pkg/auth"
	"zirako/internal/pkg/logger"
	"zirako/internal/service/account/domain"
	"zirako/internal/service/account/port"
	rewarddomain "zirako/internal/service/reward/domain"
)

const tempPasswordLength = 8

// AccountService 负责注册、登录、邮箱验证、找回密码与个人资料
type AccountService struct {
	repo     domain.Repository
	impact   port.ImpactSummarizer
	notifier port.AccountNotifier
	tokens   port.TokenIssuer
	tx       port.TxManager
	tracer   trace.Tracer
	now      func() time.Time
}

func NewAccountService(repo domain.Repository, impact port.ImpactSummarizer, notifier port.AccountNotifier, tokens port.TokenIssuer, tx port.TxManager, tracer trace.Tracer) *AccountService {
	return &AccountService{
		repo: repo, impact: impact, notifier: notifier, tokens: tokens,
		tx: tx, tracer: tracer, now: time.Now,
	}
}

// Register 创建账户并尽力发送欢迎与验证邮件
func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*domain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "app.Register")
	defer span.End()

	reg := req.registration()
	if err := reg.Validate(); err != nil {
		return nil, fail(span, err, "invalid registration")
	}
	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, fail(span, err, "hash password")
	}
	a := domain.NewAccount(*reg, hash, uuid.NewString(), s.now().UTC())
	if err := s.repo.Insert(ctx, a); err != nil {
		return nil, fail(span, err, "insert account")
	}
	span.SetAttributes(attribute.Int64("account.id", a.ID))
	logger.Ctx(ctx).Info().Int64("account_id", a.ID).Msg("account registered")

	if err := s.notifier.Welcome(ctx, a); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Int64("account_id", a.ID).Msg("welcome notification failed")
	}
	if err := s.notifier.VerifyEmail(ctx, a); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Int64("account_id", a.ID).Msg("verify email notification failed")
	}
	return a, nil
}

// Login 校验邮箱与密码并签发令牌；邮箱不存在与密码错误返回同一个错误
func (s *AccountService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "app.Login")
	defer span.End()

	a, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			err = domain.ErrInvalidCredentials
		}
		return nil, fail(span, err, "lookup account")
	}
	if !auth.CheckPassword(a.PasswordHash, req.Password) {
		return nil, fail(span, domain.ErrInvalidCredentials, "wrong password")
	}

	now := s.now().UTC()
	if err := s.repo.MarkLogin(ctx, a.ID, now); err != nil {
		return nil, fail(span, err, "mark login")
	}
	a.LastLoginAt = &now

	token, err := s.tokens.Issue(a.ID, a.Email, a.Name)
	if err != nil {
		return nil, fail(span, err, "issue token")
	}
	logger.Ctx(ctx).Info().Int64("account_id", a.ID).Msg("account logged in")
	return &LoginResult{Token: token, Account: ToAccountResponse(a)}, nil
}

func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "app.VerifyEmail")
	defer span.End()

	if strings.TrimSpace(token) == "" {
		return fail(span, domain.ErrVerifyTokenRequired, "missing token")
	}
	if err := s.repo.VerifyEmail(ctx, token, s.now().UTC()); err != nil {
		return fail(span, err, "verify email")
	}
	return nil
}

// ForgotPassword 为账户生成临时密码并通过邮件发送。
// 邮箱不存在时静默成功；通知写入失败时密码不会被修改。
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	ctx, span := s.tracer.Start(ctx, "app.ForgotPassword")
	defer span.End()

	a, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return fail(span, err, "lookup account")
	}

	temp := temporaryPassword()
	hash, err := auth.HashPassword(temp)
	if err != nil {
		return fail(span, err, "hash password")
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdatePassword(ctx, a.ID, hash, s.now().UTC()); err != nil {
			return err
		}
		return s.notifier.PasswordReset(ctx, a, temp)
	})
	if err != nil {
		return fail(span, err, "reset password")
	}
	logger.Ctx(ctx).Info().Int64("account_id", a.ID).Msg("temporary password issued")
	return nil
}

// Profile 并发读取账户、活动计数与环保影响汇总
func (s *AccountService) Profile(ctx context.Context, accountID int64) (*Profile, error) {
	ctx, span := s.tracer.Start(ctx, "app.Profile", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	var (
		a        *domain.Account
		activity domain.Activity
		impact   *rewarddomain.Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		a, err = s.repo.Get(gctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		activity, err = s.repo.Activity(gctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		impact, err = s.impact.Summary(gctx, accountID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fail(span, err, "profile query failed")
	}

	return &Profile{
		AccountResponse:  ToAccountResponse(a),
		PointsToNextTier: rewarddomain.PointsToNextTier(a.Points),
		Activity:         activity,
		Impact:           impact,
	}, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, accountID int64, req *UpdateProfileRequest) (*domain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateProfile", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	a, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return nil, fail(span, err, "load account")
	}
	if err := a.Apply(req.patch(), s.now().UTC()); err != nil {
		return nil, fail(span, err, "invalid profile")
	}
	if err := s.repo.UpdateProfile(ctx, a); err != nil {
		return nil, fail(span, err, "update profile")
	}
	return a, nil
}

// temporaryPassword 生成 8 位大写临时密码
func temporaryPassword() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:tempPasswordLength])
}

func fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}
