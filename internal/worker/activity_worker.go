package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"gotodo/internal/model"
)

// ActivityStore is the persistence sink for consumed audit events.
type ActivityStore interface {
	Create(activity *model.Activity) error
}

// ActivityWorker drains the activity queue and persists each event. Requests
// publish and move on; this worker is the only writer of activity rows.
type ActivityWorker struct {
	conn      *amqp.Connection
	store     ActivityStore
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewActivityWorker(conn *amqp.Connection, store ActivityStore, queueName string) *ActivityWorker {
	return &ActivityWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
	}
}

func (w *ActivityWorker) Start(ctx context.Context) error {
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

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
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
				w.handle(d)
			}
		}
	}()

	return nil
}

func (w *ActivityWorker) handle(d amqp.Delivery) {
	var activity model.Activity
	if err := json.Unmarshal(d.Body, &activity); err != nil {
		logrus.WithError(err).Warn("worker decode activity failed")
		_ = d.Nack(false, false)
		return
	}

	if err := w.store.Create(&activity); err != nil {
		logrus.WithError(err).WithField("action", activity.Action).Warn("worker persist activity failed")
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}

func (w *ActivityWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
