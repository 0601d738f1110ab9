package mcts

import (
	"context"
	"fmt"
	"math/rand"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/config"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/oracle"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/policy"
)

// Engine owns one search tree over a live game board. The board is shared with the
// caller, the engine only changes it in CommitMove. Not safe for concurrent use.
type Engine struct {
	Limiter LimiterLike

	cfg      config.Config
	board    *chess.Board
	root     *Node
	size     uint32
	cycles   int
	cps      uint32
	stats    EngineStats
	ops      GameOperations
	oracle   oracle.Oracle
	choices  map[config.Policy]policy.Policy
	rand     *rand.Rand
	listener *StatsListener
	log      zerolog.Logger
}

type Option func(*Engine)

// Oracle used by the perfect policies
func WithOracle(o oracle.Oracle) Option {
	return func(e *Engine) { e.oracle = o }
}

func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// Random generator of the engine, overrides the configured seed
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rand = r }
}

func WithListener(listener StatsListener) Option {
	return func(e *Engine) { *e.listener = listener }
}

// Replaces the policy driven expansion and rollouts
func WithOperations(ops GameOperations) Option {
	return func(e *Engine) { e.ops = ops }
}

// Approximate size of a node with its board, used by the memory limit
const nodeSize = uint32(unsafe.Sizeof(Node{}) + unsafe.Sizeof(chess.Board{}))

// New creates an engine searching from the given board, a nil board starts
// the configured ending from its initial layout.
func New(cfg config.Config, board *chess.Board, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if board == nil {
		board = chess.NewBoard(cfg.Ending)
	}

	e := &Engine{
		Limiter:  LimiterLike(NewLimiter(nodeSize)),
		cfg:      cfg,
		board:    board,
		choices:  make(map[config.Policy]policy.Policy),
		listener: &StatsListener{nCycles: 1},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.rand == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = SeedGeneratorFn()
		}
		e.rand = rand.New(rand.NewSource(seed))
	}

	ending := board.Ending()
	if ending == chess.NoEnding {
		ending = cfg.Ending
	}
	if e.ops == nil {
		flags := cfg.HeuristicsFor(ending)
		white, err := policy.New(cfg.WhiteSimulation, chess.White, ending, flags, e.oracle)
		if err != nil {
			return nil, err
		}
		black, err := policy.New(cfg.BlackSimulation, chess.Black, ending, flags, e.oracle)
		if err != nil {
			return nil, err
		}
		e.ops = &PolicyOps{White: white, Black: black, MaxPly: cfg.MaxPly}
	}
	e.ops.SetRand(e.rand)

	// Black's choice policy must be buildable before the game starts
	if _, err := e.choicePolicy(cfg.BlackChoice); err != nil {
		return nil, err
	}

	e.root = newRootNode(board.Clone(), cfg.MaxPly)
	e.size = 1
	e.log = e.log.With().Stringer("ending", ending).Logger()
	return e, nil
}

// Black's move choice policy of given kind, built once per kind
func (e *Engine) choicePolicy(kind config.Policy) (policy.Policy, error) {
	if p, ok := e.choices[kind]; ok {
		return p, nil
	}
	ending := e.board.Ending()
	if ending == chess.NoEnding {
		ending = e.cfg.Ending
	}
	p, err := policy.New(kind, chess.Black, ending, e.cfg.HeuristicsFor(ending), e.oracle)
	if err != nil {
		return nil, err
	}
	e.choices[kind] = p
	return p, nil
}

// ChooseMove picks the move of the side to move on the live board. White decides
// among the root's children by the choice strategy, black asks its policy.
// Without any root children white falls back to its simulation policy.
func (e *Engine) ChooseMove(white config.Choice, black config.Policy) (chess.Move, error) {
	if e.board.Turn() == chess.Black {
		p, err := e.choicePolicy(black)
		if err != nil {
			return chess.NoMove, err
		}
		return policy.Choose(p, e.board, e.rand)
	}

	children := e.root.Children()
	if len(children) == 0 {
		candidates, err := e.ops.Candidates(e.board)
		if err != nil {
			return chess.NoMove, err
		}
		if len(candidates) == 0 {
			return chess.NoMove, &chess.NoLegalMoveError{FEN: e.board.FEN(), Reason: "white has no candidates"}
		}
		return candidates[e.rand.Intn(len(candidates))], nil
	}

	var tied []*Node
	switch white {
	case config.ChoiceRandom:
		tied = children
	case config.ChoiceMaxVisits:
		tied = mostVisited(children)
	case config.ChoiceMaxUCT:
		tied = bestUCT(e.root, e.cfg.Exploration)
	default:
		return chess.NoMove, &config.InvalidConfigurationError{
			Field:  "white_choice",
			Reason: fmt.Sprintf("unknown choice %s", white),
		}
	}
	return pickRandom(tied, e.rand).Move, nil
}

// CommitMove plays the move on the live board. The subtree of the move becomes
// the new tree, a move that was never explored collapses the tree to a single node.
func (e *Engine) CommitMove(m chess.Move) error {
	if err := e.board.ApplyMove(m); err != nil {
		return err
	}

	if child := e.root.Child(m); child != nil {
		oldRoot := e.root
		child.Parent = nil
		child.rebase(child.Depth)
		e.root = child
		e.size = uint32(countTreeNodes(child))
		// Release the siblings
		oldRoot.children = nil
		oldRoot.order = nil
		e.log.Debug().Stringer("move", m).Uint32("size", e.size).Msg("re-rooted")
		return nil
	}

	e.stats.CollapseCount++
	e.root = newRootNode(e.board.Clone(), e.cfg.MaxPly)
	e.size = 1
	e.log.Debug().
		Stringer("move", m).
		Int("ply", e.board.Ply()).
		Int("collapses", e.stats.CollapseCount).
		Msg("collapsed")
	return nil
}

// Evaluation of the live board in the game loop ordering
func (e *Engine) EvaluateRoot() chess.EvalState {
	return chess.Evaluate(e.board, e.cfg.MaxPly)
}

// Follows the most visited children from the root
func (e *Engine) PrincipalVariation() []chess.Move {
	var pv []chess.Move
	node := e.root
	for len(node.order) > 0 {
		best := mostVisited(node.order)[0]
		if best.Visits == 0 {
			break
		}
		pv = append(pv, best.Move)
		node = best
	}
	return pv
}

func (e *Engine) invokeListener(f ListenerFunc) {
	if f != nil {
		f(toListenerStats(e))
	}
}

func (e *Engine) StatsListener() *StatsListener {
	return e.listener
}

func (e *Engine) SetListener(listener StatsListener) {
	*e.listener = listener
}

func (e *Engine) ResetListener() {
	e.listener.OnCycle(nil).OnDepth(nil).OnStop(nil)
}

// Adds custom context to the limiter, enabling cancellation through it
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
//	defer cancel()
//
//	engine.SetContext(ctx)
//	engine.Search(mcts.DefaultLimits())
func (e *Engine) SetContext(ctx context.Context) {
	e.Limiter.SetContext(ctx)
}

// Stop the search, safe to call from another goroutine
func (e *Engine) Stop() {
	e.Limiter.SetStop(true)
}

func (e *Engine) SetLimits(limits *Limits) {
	e.Limiter.SetLimits(limits)
}

func (e *Engine) Limits() *Limits {
	return e.Limiter.Limits()
}

// Get the reason why the search was stopped, valid after search ends
func (e *Engine) StopReason() StopReason {
	return e.Limiter.StopReason()
}

func (e *Engine) Root() *Node {
	return e.root
}

// Live board, must not be modified outside of CommitMove
func (e *Engine) Board() *chess.Board {
	return e.board
}

func (e *Engine) FEN() string {
	return e.board.FEN()
}

func (e *Engine) Config() config.Config {
	return e.cfg
}

func (e *Engine) Stats() EngineStats {
	return e.stats
}

// Number of nodes in the tree
func (e *Engine) TreeSize() int {
	return int(e.size)
}

func (e *Engine) Size() uint32 {
	return e.size
}

// Deepest node of the tree that was simulated, relative to the root
func (e *Engine) MaxDepth() int {
	return e.root.MaxDepth
}

// Steps of the last search
func (e *Engine) Cycles() int {
	return e.cycles
}

// Steps per second of the last search
func (e *Engine) Cps() uint32 {
	return e.cps
}

// Approximation of memory used by the tree
func (e *Engine) MemoryUsage() uint32 {
	return e.size * nodeSize
}

func (e *Engine) String() string {
	return fmt.Sprintf("Engine={Size=%d, Stats:{maxdepth=%d, cps=%d, cycles=%d}, Root=%v, FEN=%q}",
		e.Size(), e.MaxDepth(), e.Cps(), e.Cycles(), e.root.NodeStats, e.FEN())
}
