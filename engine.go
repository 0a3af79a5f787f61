package exeval

import (
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Engine compiles and evaluates expressions. It owns the memory holding
// variable values and the tables of declared variables and connected
// functions, which only ever grow.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	settings Settings
	log      *zap.Logger

	memory []float64
	vars   map[string]int
	funcs  map[string]Function

	// expr is the expression tree was compiled from. tree is nil until the
	// first successful Eval.
	expr  string
	tree  *evalNode
	cache *compileCache
}

// Option is an option used when creating an engine.
type Option interface {
	engineOption()
}

type (
	settingsopt Settings
	loggeropt   struct{ log *zap.Logger }
	cacheopt    int
)

func (settingsopt) engineOption() {}
func (loggeropt) engineOption()   {}
func (cacheopt) engineOption()    {}

// WithSettings sets the limits of the engine. The default is
// DefaultSettings().
func WithSettings(s Settings) Option {
	return settingsopt(s)
}

// WithLogger sets a logger for debugging messages about compilation and
// declarations. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return loggeropt{log}
}

// WithCompileCache keeps up to size compiled expressions besides the last, so
// that alternating between expressions does not recompile them. A size of
// zero or less disables the cache, which is the default.
func WithCompileCache(size int) Option {
	return cacheopt(size)
}

// New creates an engine. Panics if the settings are invalid.
func New(opts ...Option) *Engine {
	e := Engine{
		settings: DefaultSettings(),
		log:      zap.NewNop(),
		memory:   make([]float64, 0, 64),
		vars:     make(map[string]int),
		funcs:    make(map[string]Function),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case settingsopt:
			e.settings = Settings(opt)
		case loggeropt:
			if opt.log != nil {
				e.log = opt.log
			}
		case cacheopt:
			e.cache = newCompileCache(int(opt))
		default:
			panic("exeval: unknown option type")
		}
	}
	if err := e.settings.Validate(); err != nil {
		panic("exeval: invalid settings: " + err.Error())
	}
	return &e
}

// Settings returns the engine's limits.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Eval computes the value of an expression. If the expression is the same as
// the last one evaluated, it is not compiled again; the result still
// reflects the current values of variables.
func (e *Engine) Eval(expression string) (float64, error) {
	if utf8.RuneCountInString(expression) > e.settings.MaxExpressionLength {
		return 0, newError(TooLongExpression, strconv.Itoa(e.settings.MaxExpressionLength))
	}
	if e.tree == nil || expression != e.expr {
		tree, err := e.compile(expression)
		if err != nil {
			return 0, err
		}
		e.expr, e.tree = expression, tree
	}
	return e.tree.eval(e.memory)
}

// Reeval evaluates the expression most recently compiled by Eval again.
func (e *Engine) Reeval() (float64, error) {
	if e.tree == nil {
		return 0, newError(ReevalNotAvailable)
	}
	return e.tree.eval(e.memory)
}

// compile runs an expression through the lexer, parser, and compiler, or
// takes its tree from the compile cache.
func (e *Engine) compile(expression string) (*evalNode, error) {
	if tree := e.cache.get(expression); tree != nil {
		e.log.Debug("compile cache hit", zap.String("expr", expression))
		return tree, nil
	}
	toks, err := analyze(expression, e.settings)
	if err != nil {
		return nil, err
	}
	ast, err := parse(toks, e.settings)
	if err != nil {
		return nil, err
	}
	tree, err := compile(ast, e.vars, e.funcs)
	if err != nil {
		return nil, err
	}
	e.cache.add(expression, tree)
	e.log.Debug("compiled expression",
		zap.String("expr", expression),
		zap.Int("tokens", len(toks)),
		zap.Int("depth", ast.depth()),
	)
	return tree, nil
}

// DeclareVariable declares a variable with the value 0 and returns its
// address for use with ReadVariableAt and WriteVariableAt.
func (e *Engine) DeclareVariable(name string) (int, error) {
	if utf8.RuneCountInString(name) > e.settings.MaxNameLength {
		return 0, newError(TooLongVariableName, strconv.Itoa(e.settings.MaxNameLength))
	}
	if _, ok := e.vars[name]; ok {
		return 0, newError(VariableAlreadyDeclared, name)
	}
	addr := len(e.memory)
	e.memory = append(e.memory, 0)
	e.vars[name] = addr
	e.log.Debug("declared variable", zap.String("name", name), zap.Int("address", addr))
	return addr, nil
}

// lookup gets the address of a declared variable.
func (e *Engine) lookup(name string) (int, error) {
	if utf8.RuneCountInString(name) > e.settings.MaxNameLength {
		return 0, newError(VariableNotFound, name)
	}
	addr, ok := e.vars[name]
	if !ok {
		return 0, newError(VariableNotFound, name)
	}
	return addr, nil
}

// WriteVariable sets the value of a declared variable.
func (e *Engine) WriteVariable(name string, value float64) error {
	addr, err := e.lookup(name)
	if err != nil {
		return err
	}
	return e.WriteVariableAt(addr, value)
}

// WriteVariableAt sets the value of the variable at an address returned by
// DeclareVariable.
func (e *Engine) WriteVariableAt(address int, value float64) error {
	if address < 0 || address >= len(e.memory) {
		return newError(InvalidMemoryAddress, strconv.Itoa(address))
	}
	e.memory[address] = value
	return nil
}

// ReadVariable gets the value of a declared variable.
func (e *Engine) ReadVariable(name string) (float64, error) {
	addr, err := e.lookup(name)
	if err != nil {
		return 0, err
	}
	return e.ReadVariableAt(addr)
}

// ReadVariableAt gets the value of the variable at an address returned by
// DeclareVariable.
func (e *Engine) ReadVariableAt(address int) (float64, error) {
	if address < 0 || address >= len(e.memory) {
		return 0, newError(InvalidMemoryAddress, strconv.Itoa(address))
	}
	return e.memory[address], nil
}

// ConnectFunction makes a function available to expressions under a name.
// The returned address is the number of functions connected before it; it
// is informational only, as calls are always resolved by name.
func (e *Engine) ConnectFunction(name string, fn Function) (int, error) {
	if fn == nil {
		panic("exeval: ConnectFunction with nil function")
	}
	if utf8.RuneCountInString(name) > e.settings.MaxNameLength {
		return 0, newError(TooLongFunctionName, strconv.Itoa(e.settings.MaxNameLength))
	}
	if _, ok := e.funcs[name]; ok {
		return 0, newError(FunctionAlreadyConnected, name)
	}
	addr := len(e.funcs)
	e.funcs[name] = fn
	e.log.Debug("connected function", zap.String("name", name), zap.Int("address", addr))
	return addr, nil
}
