package outreach

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler periodically kicks the runner so that leads approved with a
// scheduled_at in the future go out once their time arrives, without the
// operator pressing the campaign button again.
type Scheduler struct {
	cronEngine *cron.Cron
	runner     *Runner
	spec       string
}

func NewScheduler(runner *Runner, spec string) *Scheduler {
	if spec == "" {
		spec = "@every 1m"
	}
	return &Scheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		runner:     runner,
		spec:       spec,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.spec, func() {
		if s.runner.Active() {
			return // campanha já rodando
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.runner.Kick(ctx); err != nil {
			if !errors.Is(err, ErrQueueEmpty) {
				log.Printf("⚠️ [SCHEDULER] Kick da campanha falhou: %v", err)
			}
			return
		}
		log.Println("⏰ [SCHEDULER] Leads agendados vencidos, campanha iniciada")
	})
	if err != nil {
		return err
	}
	s.cronEngine.Start()
	log.Printf("🕒 [SCHEDULER] Promoção de agendados ativa (%s)", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	s.cronEngine.Stop()
}
