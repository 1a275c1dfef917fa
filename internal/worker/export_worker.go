package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"lsb-music/internal/exporter"
	"lsb-music/internal/model"
	"lsb-music/internal/repository"
)

// ExportWorker regenerates a session's playlist whenever a session-saved
// event arrives, keeping the export pipeline off the save path entirely.
type ExportWorker struct {
	conn      *amqp.Connection
	sessions  *repository.SessionRepository
	playlists *exporter.PlaylistExporter
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExportWorker(
	conn *amqp.Connection,
	sessions *repository.SessionRepository,
	playlists *exporter.PlaylistExporter,
	queueName string,
) *ExportWorker {
	return &ExportWorker{
		conn:      conn,
		sessions:  sessions,
		playlists: playlists,
		queueName: queueName,
	}
}

func (w *ExportWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := ch.QueueDeclare(w.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(workerCtx, d)
			}
		}
	}()

	return nil
}

func (w *ExportWorker) handle(ctx context.Context, d amqp.Delivery) {
	var event model.SessionSavedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		log.Printf("worker decode session event failed: %v", err)
		_ = d.Nack(false, false)
		return
	}

	session, err := w.sessions.Load(ctx, event.SessionID)
	if err != nil {
		// one redelivery covers a transient blip; after that the event is
		// dropped rather than spinning through the queue while the store
		// is down (the next save republishes anyway)
		log.Printf("worker load session %s failed: %v", event.SessionID, err)
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	if session == nil {
		// deleted between save and consume; nothing to export
		_ = d.Ack(false)
		return
	}

	path, count, err := w.playlists.Export(ctx, *session)
	if err != nil {
		log.Printf("worker export playlist for %s failed: %v", event.SessionID, err)
		_ = d.Nack(false, false)
		return
	}
	if count > 0 {
		log.Printf("exported playlist %s (%d songs)", path, count)
	}

	_ = d.Ack(false)
}

func (w *ExportWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
