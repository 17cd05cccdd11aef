package SessionVars

import (
	"github.com/nickyhof/SessionVars/db"
)

type Instance struct {
	session *db.Session
}

// Open creates a fresh instance with its own session-scoped variable store.
func Open() *Instance {
	return &Instance{
		session: db.NewSession(),
	}
}

func (instance *Instance) Session() *db.Session {
	return instance.session
}

func (instance *Instance) Engine() *db.Engine {
	return db.NewEngine(instance.session)
}
