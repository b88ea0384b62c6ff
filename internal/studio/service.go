package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"devart/internal/imagegen"
	"devart/internal/intent"
	"devart/internal/removebg"
	"devart/internal/session"
	"devart/internal/style"
	"devart/internal/stylelock"
)

var (
	ErrEmptyInput    = errors.New("input is empty")
	ErrNoPrompts     = errors.New("no subjects to generate")
	ErrAssetNotFound = errors.New("asset not found")
	ErrNoSeed        = errors.New("asset has no seed to regenerate from")
	ErrNoGenerator   = errors.New("image generator is not configured")
)

// BackgroundRemover strips the background of an image. It never fails; the
// original URL is returned when removal was not possible.
type BackgroundRemover interface {
	Remove(ctx context.Context, imageURL string) removebg.Result
}

type Options struct {
	Extractor intent.Extractor
	Generator imagegen.Generator
	Remover   BackgroundRemover
	Store     *session.Store
	Runner    *Runner
	Logger    *slog.Logger
	Now       func() time.Time
}

type Service struct {
	extractor intent.Extractor
	generator imagegen.Generator
	remover   BackgroundRemover
	store     *session.Store
	runner    *Runner
	logger    *slog.Logger
	now       func() time.Time
}

// BatchResult describes one Generate call.
type BatchResult struct {
	Plan       Plan
	Assets     []session.Asset
	AutoLocked bool
	Style      stylelock.Context
}

func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	extractor := opts.Extractor
	if extractor == nil {
		extractor = intent.Fallback{}
	}

	store := opts.Store
	if store == nil {
		store = session.NewStore(session.Options{})
	}

	runner := opts.Runner
	if runner == nil {
		runner = NewRunner(RunnerOptions{Generator: opts.Generator, Logger: logger})
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		extractor: extractor,
		generator: opts.Generator,
		remover:   opts.Remover,
		store:     store,
		runner:    runner,
		logger:    logger,
		now:       now,
	}
}

func (s *Service) Store() *session.Store {
	return s.store
}

// Plan reads userInput and compiles prompts under the given lock.
func (s *Service) Plan(ctx context.Context, userInput string, lock stylelock.Context) (Plan, error) {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return Plan{}, ErrEmptyInput
	}

	in, err := s.extractor.Extract(ctx, userInput)
	if err != nil {
		return Plan{}, fmt.Errorf("extract intent: %w", err)
	}
	return Process(userInput, in, lock), nil
}

// Generate handles one chat turn: it plans against the session's lock, runs
// the batch, stores the produced assets and locks the style after the first
// successful batch. On a generation failure the assets made so far are kept
// and returned alongside the error. onPlan, when set, sees a visual plan
// before any image is requested.
func (s *Service) Generate(ctx context.Context, sessionID, userInput string, onPlan func(Plan)) (BatchResult, error) {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return BatchResult{}, ErrEmptyInput
	}

	snap := s.store.Snapshot(sessionID)
	s.store.Append(sessionID, session.HistoryMessage{Role: "user", Content: userInput})

	plan, err := s.Plan(ctx, userInput, snap.Style)
	if err != nil {
		return BatchResult{}, err
	}

	if !plan.IsVisual {
		s.store.Append(sessionID, session.HistoryMessage{Role: "assistant", Content: plan.ChatResponse})
		return BatchResult{Plan: plan, Style: snap.Style}, nil
	}
	if len(plan.Prompts) == 0 {
		return BatchResult{Plan: plan, Style: snap.Style}, ErrNoPrompts
	}
	if s.runner.gen == nil {
		return BatchResult{Plan: plan, Style: snap.Style}, ErrNoGenerator
	}

	s.store.Append(sessionID, session.HistoryMessage{Role: "assistant", Content: plan.Suggestion})
	if onPlan != nil {
		onPlan(plan)
	}
	s.logger.Info("batch started", "session", sessionID, "items", len(plan.Prompts), "locked", snap.Style.Locked, "base_seed", plan.BaseSeed)

	outputs, runErr := s.runner.Run(ctx, plan.Prompts)

	assets := make([]session.Asset, 0, len(outputs))
	for _, o := range outputs {
		params := *plan.Params
		assets = append(assets, session.Asset{
			ID:          session.NewAssetID(),
			ImageURL:    o.Result.ImageURL,
			Prompt:      o.Item.Prompt,
			UserPrompt:  userInput,
			Subject:     o.Item.Subject,
			Seed:        o.Result.Seed,
			StyleParams: &params,
			CreatedAt:   s.now(),
		})
	}
	s.store.AddAssets(sessionID, assets...)

	result := BatchResult{Plan: plan, Assets: assets, Style: snap.Style}
	if len(assets) > 0 {
		result.Style = s.store.Style(sessionID, stylelock.BatchSucceeded{
			Params:       *plan.Params,
			Description:  plan.Description,
			Fragment:     plan.Fragment,
			FirstAssetID: assets[0].ID,
			BaseSeed:     plan.BaseSeed,
		})
		result.AutoLocked = !snap.Style.Locked && result.Style.Locked
		if result.AutoLocked {
			s.store.Append(sessionID, session.HistoryMessage{Role: "assistant", Content: LockedNotice(plan.Description)})
		}
	}

	if runErr != nil {
		s.store.Append(sessionID, session.HistoryMessage{Role: "system", Content: "❌ " + runErr.Error()})
		return result, runErr
	}
	return result, nil
}

// LockFromAsset pins the style of an existing asset for the session.
func (s *Service) LockFromAsset(sessionID, assetID string) (stylelock.Context, error) {
	asset, ok := s.store.Asset(sessionID, assetID)
	if !ok {
		return stylelock.Context{}, ErrAssetNotFound
	}
	return s.store.Style(sessionID, stylelock.LockFromAsset{
		AssetID: asset.ID,
		Prompt:  asset.Prompt,
		Seed:    asset.Seed,
		Params:  asset.StyleParams,
	}), nil
}

func (s *Service) Unlock(sessionID string) stylelock.Context {
	return s.store.Style(sessionID, stylelock.Unlock{})
}

// NewChat clears the conversation and the style lock; assets stay.
func (s *Service) NewChat(sessionID string) {
	s.store.NewChat(sessionID)
}

// Reroll generates a variant of an asset with a fresh, time-derived seed.
func (s *Service) Reroll(ctx context.Context, sessionID, assetID string) (session.Asset, error) {
	asset, ok := s.store.Asset(sessionID, assetID)
	if !ok {
		return session.Asset{}, ErrAssetNotFound
	}
	seed := style.GenerateSeed(asset.Prompt+strconv.FormatInt(s.now().UnixMilli(), 10), 0)
	return s.regenerate(ctx, sessionID, asset, seed)
}

// ExactRegenerate repeats an asset with its own prompt and seed.
func (s *Service) ExactRegenerate(ctx context.Context, sessionID, assetID string) (session.Asset, error) {
	asset, ok := s.store.Asset(sessionID, assetID)
	if !ok {
		return session.Asset{}, ErrAssetNotFound
	}
	if asset.Seed == 0 {
		return session.Asset{}, ErrNoSeed
	}
	return s.regenerate(ctx, sessionID, asset, asset.Seed)
}

func (s *Service) regenerate(ctx context.Context, sessionID string, src session.Asset, seed int64) (session.Asset, error) {
	if s.generator == nil {
		return session.Asset{}, ErrNoGenerator
	}

	res, err := s.generator.Generate(ctx, imagegen.Request{Prompt: src.Prompt, Seed: imagegen.Seed(seed)})
	if err != nil {
		return session.Asset{}, fmt.Errorf("regenerate: %w", err)
	}

	asset := session.Asset{
		ID:          session.NewAssetID(),
		ImageURL:    res.ImageURL,
		Prompt:      src.Prompt,
		UserPrompt:  src.UserPrompt,
		Subject:     src.Subject,
		Seed:        res.Seed,
		StyleParams: src.StyleParams,
		CreatedAt:   s.now(),
	}
	s.store.AddAssets(sessionID, asset)
	return asset, nil
}

// RemoveBackground attaches a transparent version to the asset when the
// remover produced one. An asset that already has one is returned as is.
func (s *Service) RemoveBackground(ctx context.Context, sessionID, assetID string) (session.Asset, removebg.Result, error) {
	asset, ok := s.store.Asset(sessionID, assetID)
	if !ok {
		return session.Asset{}, removebg.Result{}, ErrAssetNotFound
	}
	if asset.TransparentURL != "" {
		return asset, removebg.Result{URL: asset.TransparentURL, Removed: true}, nil
	}
	if s.remover == nil {
		return asset, removebg.Result{URL: asset.ImageURL, Note: removebg.NoteNotConfigured}, nil
	}

	res := s.remover.Remove(ctx, asset.ImageURL)
	if res.URL != "" && res.URL != asset.ImageURL {
		s.store.UpdateAsset(sessionID, assetID, func(a *session.Asset) {
			a.TransparentURL = res.URL
		})
		asset.TransparentURL = res.URL
	}
	return asset, res, nil
}
