package handlers

import (
	"context"

	"personahub/internal/ipc"
)

type executeQueryRequest struct {
	Query string `json:"query"`
	Args  []any  `json:"args,omitempty"`
}

// RegisterDatabaseHandlers wires the db:initialize, db:executeQuery and
// db:backup channels.
func RegisterDatabaseHandlers(reg *ipc.Registry, d Deps) {
	// The schema is applied when the store opens; initialize just
	// confirms the connection is alive.
	reg.Register(ipc.ChannelDBInitialize, func(ctx context.Context, _ any) (any, error) {
		if _, err := d.Store.ExecuteQuery(ctx, "SELECT 1"); err != nil {
			return nil, err
		}
		return true, nil
	})

	reg.Register(ipc.ChannelDBExecuteQuery, func(ctx context.Context, payload any) (any, error) {
		var req executeQueryRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.Store.ExecuteQuery(ctx, req.Query, req.Args...)
	})

	reg.Register(ipc.ChannelDBBackup, func(ctx context.Context, _ any) (any, error) {
		path, err := d.Store.Backup(ctx, d.BackupDir)
		if err != nil {
			return nil, err
		}
		if d.Events != nil {
			d.Events.Emit(ipc.EventBackupCompleted, map[string]any{"path": path})
		}
		return map[string]any{"path": path}, nil
	})
}
