package studio_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devart/internal/imagegen"
	"devart/internal/intent"
	"devart/internal/removebg"
	"devart/internal/session"
	"devart/internal/studio"
	"devart/internal/style"
	"devart/internal/stylelock"
)

type fakeGenerator struct {
	mu     sync.Mutex
	seeds  []int64
	failAt int
}

func (g *fakeGenerator) Generate(_ context.Context, req imagegen.Request) (imagegen.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failAt > 0 && len(g.seeds)+1 == g.failAt {
		g.seeds = append(g.seeds, *req.Seed)
		return imagegen.Result{}, errors.New("upstream down")
	}
	g.seeds = append(g.seeds, *req.Seed)
	return imagegen.Result{
		ImageURL: fmt.Sprintf("https://img/%d.png", *req.Seed),
		Prompt:   req.Prompt,
		Seed:     *req.Seed,
	}, nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seeds)
}

type staticExtractor struct{ in intent.Intent }

func (e staticExtractor) Extract(context.Context, string) (intent.Intent, error) {
	return e.in, nil
}

type fakeRemover struct{ url string }

func (r fakeRemover) Remove(_ context.Context, imageURL string) removebg.Result {
	if r.url == "" {
		return removebg.Result{URL: imageURL, Note: removebg.NoteFailed}
	}
	return removebg.Result{URL: r.url, Removed: true}
}

var batchIntent = intent.Intent{
	IsVisual:    true,
	Subjects:    []string{"首页", "购物车", "订单", "我的"},
	Color:       "蓝色",
	Style:       "扁平线性",
	StrokeWidth: 2,
}

const batchInput = "生成一组电商 App 图标：首页、购物车、订单、我的，要扁平线性风格，主色蓝色"

func newService(gen *fakeGenerator, ex intent.Extractor, now time.Time) *studio.Service {
	runner := studio.NewRunner(studio.RunnerOptions{Generator: gen, Delay: time.Millisecond})
	return studio.New(studio.Options{
		Extractor: ex,
		Generator: gen,
		Remover:   fakeRemover{url: "data:image/png;base64,AAAA"},
		Runner:    runner,
		Now:       func() time.Time { return now },
	})
}

func TestProcessNonVisual(t *testing.T) {
	plan := studio.Process("你好", intent.Intent{}, stylelock.Context{})
	assert.False(t, plan.IsVisual)
	assert.Equal(t, studio.DefaultChatResponse, plan.ChatResponse)
	assert.Empty(t, plan.Prompts)

	plan = studio.Process("你好", intent.Intent{ChatResponse: "hi"}, stylelock.Context{})
	assert.Equal(t, "hi", plan.ChatResponse)
}

func TestProcessBatch(t *testing.T) {
	plan := studio.Process(batchInput, batchIntent, stylelock.Context{})
	require.True(t, plan.IsVisual)
	require.Len(t, plan.Prompts, 4)
	require.NotNil(t, plan.Params)

	assert.Equal(t, style.FlatLine, plan.Params.Type)
	assert.Equal(t, "#007AFF", plan.Params.Color.Primary)
	assert.Equal(t, style.Stroke{Width: 2, Style: style.StrokeSolid}, plan.Params.Stroke)

	raw := `{"type":"flat-line","color":{"primary":"#007AFF","background":"white"},"stroke":{"width":2,"style":"solid"},"modifiers":["线艺术","基于笔画"]}`
	assert.Equal(t, style.GenerateSeed(batchInput+raw, 0), plan.BaseSeed)

	for i, item := range plan.Prompts {
		subject := style.ParseSubject(batchIntent.Subjects[i])
		assert.Equal(t, batchIntent.Subjects[i], item.Subject)
		assert.Equal(t, style.GenerateSeed(subject.English, plan.BaseSeed+int64(i)), item.Seed)
		assert.Contains(t, item.Prompt, "2px 线条宽度")
		assert.Contains(t, item.Prompt, "#007AFF 线条颜色")
	}

	desc := style.Describe(*plan.Params)
	assert.Equal(t, desc, plan.Description)
	assert.Equal(t, style.Fragment(*plan.Params), plan.Fragment)
	assert.Equal(t, "正在生成 4 个 "+desc+" 风格的图标：首页、购物车、订单、我的...", plan.Suggestion)
}

func TestProcessSingleSubjectSuggestion(t *testing.T) {
	plan := studio.Process("画一个设置图标", intent.Intent{IsVisual: true, Subjects: []string{"设置"}}, stylelock.Context{})
	require.Len(t, plan.Prompts, 1)
	assert.Equal(t, "#000000", plan.Params.Color.Primary)
	assert.Equal(t, "正在生成 "+plan.Description+" 风格的「设置」图标...", plan.Suggestion)
}

func TestProcessLockedStyleWins(t *testing.T) {
	locked := style.Resolve("3D", "橙色", 0)
	lock := stylelock.Reduce(stylelock.Context{}, stylelock.BatchSucceeded{
		Params: locked, FirstAssetID: "a1", BaseSeed: 777,
	})

	plan := studio.Process("再来一个设置", batchIntent, lock)
	require.NotNil(t, plan.Params)
	assert.Equal(t, locked, *plan.Params)
	assert.Equal(t, int64(777), plan.BaseSeed)
	for i, item := range plan.Prompts {
		subject := style.ParseSubject(item.Subject)
		assert.Equal(t, style.GenerateSeed(subject.English, 777+int64(i)), item.Seed)
		assert.Contains(t, item.Prompt, "3D 风格")
		assert.NotContains(t, item.Prompt, "线条风格")
	}
}

func TestProcessIsDeterministic(t *testing.T) {
	a := studio.Process(batchInput, batchIntent, stylelock.Context{})
	b := studio.Process(batchInput, batchIntent, stylelock.Context{})
	assert.Equal(t, a, b)
}

func TestRunnerSequentialStopsOnFailure(t *testing.T) {
	gen := &fakeGenerator{failAt: 3}
	r := studio.NewRunner(studio.RunnerOptions{Generator: gen, Delay: time.Millisecond})

	plan := studio.Process(batchInput, batchIntent, stylelock.Context{})
	out, err := r.Run(context.Background(), plan.Prompts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "订单")
	assert.Len(t, out, 2)
	assert.Equal(t, 3, gen.calls())
	assert.Equal(t, plan.Prompts[0].Seed, out[0].Result.Seed)
}

func TestRunnerParallelKeepsOrder(t *testing.T) {
	gen := &fakeGenerator{}
	r := studio.NewRunner(studio.RunnerOptions{Generator: gen, Concurrency: 3})

	plan := studio.Process(batchInput, batchIntent, stylelock.Context{})
	out, err := r.Run(context.Background(), plan.Prompts)
	require.NoError(t, err)
	require.Len(t, out, 4)
	for i, o := range out {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, plan.Prompts[i].Seed, o.Result.Seed)
	}
}

func TestGenerateAutoLocksAfterFirstBatch(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newService(gen, staticExtractor{in: batchIntent}, time.Unix(1700000000, 0))

	callsAtPlan := -1
	res, err := svc.Generate(context.Background(), "s1", batchInput, func(p studio.Plan) {
		callsAtPlan = gen.calls()
		assert.Len(t, p.Prompts, 4)
	})
	require.NoError(t, err)
	assert.Equal(t, 0, callsAtPlan)
	require.Len(t, res.Assets, 4)
	assert.True(t, res.AutoLocked)
	assert.True(t, res.Style.Locked)
	assert.Equal(t, res.Assets[0].ID, res.Style.LockedFromAssetID)
	assert.Equal(t, res.Plan.BaseSeed, res.Style.BaseSeed)
	assert.Equal(t, res.Plan.Description, res.Style.Description)
	assert.Equal(t, batchInput, res.Assets[0].UserPrompt)

	snap := svc.Store().Snapshot("s1")
	assert.Len(t, snap.Assets, 4)
	assert.Equal(t, res.Assets[3].ID, snap.Assets[0].ID)

	other := intent.Intent{IsVisual: true, Subjects: []string{"设置"}, Color: "红色", Style: "像素"}
	svc2 := studio.New(studio.Options{
		Extractor: staticExtractor{in: other},
		Generator: gen,
		Store:     svc.Store(),
		Runner:    studio.NewRunner(studio.RunnerOptions{Generator: gen}),
	})
	res2, err := svc2.Generate(context.Background(), "s1", "像素风红色设置", nil)
	require.NoError(t, err)
	assert.False(t, res2.AutoLocked)
	assert.Equal(t, *res.Plan.Params, *res2.Plan.Params)
	assert.Equal(t, res.Plan.BaseSeed, res2.Plan.BaseSeed)
	assert.Equal(t, res.Assets[0].ID, res2.Style.LockedFromAssetID)
}

func TestGenerateKeepsPartialAssetsOnFailure(t *testing.T) {
	gen := &fakeGenerator{failAt: 2}
	svc := newService(gen, staticExtractor{in: batchIntent}, time.Now())

	res, err := svc.Generate(context.Background(), "s1", batchInput, nil)
	require.Error(t, err)
	require.Len(t, res.Assets, 1)
	assert.True(t, res.Style.Locked)
	assert.Len(t, svc.Store().Snapshot("s1").Assets, 1)
}

func TestGenerateNonVisual(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newService(gen, intent.Fallback{}, time.Now())

	res, err := svc.Generate(context.Background(), "s1", "你好", nil)
	require.NoError(t, err)
	assert.False(t, res.Plan.IsVisual)
	assert.NotEmpty(t, res.Plan.ChatResponse)
	assert.Zero(t, gen.calls())

	history := svc.Store().Snapshot("s1").History
	require.Len(t, history, 2)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestGenerateValidation(t *testing.T) {
	svc := newService(&fakeGenerator{}, staticExtractor{in: intent.Intent{IsVisual: true}}, time.Now())

	_, err := svc.Generate(context.Background(), "s1", "   ", nil)
	assert.ErrorIs(t, err, studio.ErrEmptyInput)

	_, err = svc.Generate(context.Background(), "s1", "画", nil)
	assert.ErrorIs(t, err, studio.ErrNoPrompts)
}

func TestLockUnlockAndNewChat(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newService(gen, staticExtractor{in: batchIntent}, time.Now())
	res, err := svc.Generate(context.Background(), "s1", batchInput, nil)
	require.NoError(t, err)

	ctx := svc.Unlock("s1")
	assert.Equal(t, stylelock.Context{}, ctx)

	third := res.Assets[2]
	ctx, err = svc.LockFromAsset("s1", third.ID)
	require.NoError(t, err)
	assert.True(t, ctx.IsLockedFrom(third.ID))
	assert.Equal(t, third.Seed, ctx.BaseSeed)
	assert.Equal(t, *third.StyleParams, *ctx.Params)

	_, err = svc.LockFromAsset("s1", "missing")
	assert.ErrorIs(t, err, studio.ErrAssetNotFound)

	svc.NewChat("s1")
	snap := svc.Store().Snapshot("s1")
	assert.False(t, snap.Style.Locked)
	assert.Empty(t, snap.History)
	assert.Len(t, snap.Assets, 4)
}

func TestRerollAndExact(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	gen := &fakeGenerator{}
	svc := newService(gen, staticExtractor{in: batchIntent}, now)
	res, err := svc.Generate(context.Background(), "s1", batchInput, nil)
	require.NoError(t, err)
	src := res.Assets[0]

	rerolled, err := svc.Reroll(context.Background(), "s1", src.ID)
	require.NoError(t, err)
	assert.Equal(t, style.GenerateSeed(src.Prompt+strconv.FormatInt(now.UnixMilli(), 10), 0), rerolled.Seed)
	assert.Equal(t, src.Prompt, rerolled.Prompt)
	assert.NotEqual(t, src.ID, rerolled.ID)

	exact, err := svc.ExactRegenerate(context.Background(), "s1", src.ID)
	require.NoError(t, err)
	assert.Equal(t, src.Seed, exact.Seed)
	assert.Equal(t, src.ImageURL, exact.ImageURL)

	svc.Store().AddAssets("s1", session.Asset{ID: "seedless", Prompt: "p"})
	_, err = svc.ExactRegenerate(context.Background(), "s1", "seedless")
	assert.ErrorIs(t, err, studio.ErrNoSeed)

	_, err = svc.Reroll(context.Background(), "s1", "missing")
	assert.ErrorIs(t, err, studio.ErrAssetNotFound)
}

func TestRemoveBackground(t *testing.T) {
	store := session.NewStore(session.Options{})
	store.AddAssets("s1", session.Asset{ID: "a", ImageURL: "https://img/a.png"})

	svc := studio.New(studio.Options{Store: store, Remover: fakeRemover{url: "data:image/png;base64,AAAA"}})
	asset, res, err := svc.RemoveBackground(context.Background(), "s1", "a")
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Equal(t, "data:image/png;base64,AAAA", asset.TransparentURL)

	stored, _ := store.Asset("s1", "a")
	assert.Equal(t, "data:image/png;base64,AAAA", stored.TransparentURL)

	store.AddAssets("s1", session.Asset{ID: "b", ImageURL: "https://img/b.png"})
	svc = studio.New(studio.Options{Store: store, Remover: fakeRemover{}})
	asset, res, err = svc.RemoveBackground(context.Background(), "s1", "b")
	require.NoError(t, err)
	assert.Empty(t, asset.TransparentURL)
	assert.Equal(t, removebg.NoteFailed, res.Note)

	_, _, err = svc.RemoveBackground(context.Background(), "s1", "zzz")
	assert.ErrorIs(t, err, studio.ErrAssetNotFound)
}
