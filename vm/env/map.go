package env

const maxEnvKeyLength = 32

// Map is a prefixed view of a contract store.
type Map struct {
	env    Env
	prefix []byte
	ctx    CallContext
}

// prefix length should be <=31 or prefix will be truncated
func NewMap(prefix []byte, env Env, ctx CallContext) *Map {
	if len(prefix) >= maxEnvKeyLength {
		prefix = prefix[:30]
	}
	return &Map{prefix: prefix, env: env, ctx: ctx}
}

func (m *Map) formatKey(key []byte) []byte {
	return append(append([]byte{}, m.prefix...), key...)
}

func (m *Map) Set(key []byte, value []byte) {
	m.env.SetValue(m.ctx, m.formatKey(key), value)
}

func (m *Map) Get(key []byte) []byte {
	return m.env.GetValue(m.ctx, m.formatKey(key))
}

func (m *Map) Remove(key []byte) {
	m.env.RemoveValue(m.ctx, m.formatKey(key))
}
