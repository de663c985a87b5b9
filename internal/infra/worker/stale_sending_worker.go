package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// StaleSendingWorker re-queues leads stuck in 'sending'. A lead only stays
// there this long if the process died between claiming and completing, so
// reverting to 'queued' lets the next campaign pick it up again.
type StaleSendingWorker struct {
	db           *sql.DB
	staleWindow  time.Duration
	tickInterval time.Duration
}

func NewStaleSendingWorker(db *sql.DB) *StaleSendingWorker {
	return &StaleSendingWorker{
		db:           db,
		staleWindow:  5 * time.Minute, // muito acima do delay máximo de envio
		tickInterval: 1 * time.Minute,
	}
}

func (w *StaleSendingWorker) Start(ctx context.Context) {
	log.Println("🕒 Stale Sending Worker iniciado (janela de 5min)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.requeueStale(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Stale Sending Worker encerrado")
			return
		case <-ticker.C:
			w.requeueStale(ctx)
		}
	}
}

func (w *StaleSendingWorker) requeueStale(ctx context.Context) {
	query := `
		UPDATE leads
		SET
			automation_status = 'queued',
			updated_at = NOW()
		WHERE
			automation_status = 'sending'
			AND updated_at < NOW() - ($1 * INTERVAL '1 second')
		RETURNING id, full_name, updated_at
	`

	rows, err := w.db.QueryContext(ctx, query, int(w.staleWindow.Seconds()))
	if err != nil {
		log.Printf("❌ Erro ao buscar envios travados: %v", err)
		return
	}
	defer rows.Close()

	requeued := 0
	for rows.Next() {
		var id, fullName string
		var updatedAt time.Time

		if err := rows.Scan(&id, &fullName, &updatedAt); err != nil {
			log.Printf("⚠️ Erro ao escanear envio travado: %v", err)
			continue
		}

		log.Printf("⏱️ Envio travado devolvido à fila: lead=%s (%s)", id, fullName)
		requeued++
	}

	if requeued > 0 {
		log.Printf("✅ %d lead(s) devolvidos para 'queued'", requeued)
	}
}
