package usecase

import (
	"context"

	"focusfarm/internal/modules/timer/domain"
	timerdto "focusfarm/internal/modules/timer/dto"
	timerin "focusfarm/internal/modules/timer/port/in"
	"focusfarm/internal/modules/timer/service"
)

type Interactor struct {
	mgr *service.Manager
}

func NewInteractor(mgr *service.Manager) timerin.Usecase {
	return &Interactor{mgr: mgr}
}

func (i *Interactor) Start(ctx context.Context) (timerdto.StateOutput, error) {
	return i.wrap(i.mgr.Start(ctx))
}

func (i *Interactor) Stop(ctx context.Context) (timerdto.StateOutput, error) {
	return i.wrap(i.mgr.Stop(ctx))
}

func (i *Interactor) Pause(ctx context.Context) (timerdto.StateOutput, error) {
	return i.wrap(i.mgr.Pause(ctx))
}

func (i *Interactor) Resume(ctx context.Context) (timerdto.StateOutput, error) {
	return i.wrap(i.mgr.Resume(ctx))
}

func (i *Interactor) Reset(ctx context.Context) (timerdto.StateOutput, error) {
	return i.wrap(i.mgr.Reset(ctx))
}

func (i *Interactor) Current(context.Context) (timerdto.StateOutput, error) {
	return i.output(i.mgr.State()), nil
}

func (i *Interactor) Watch(ctx context.Context) <-chan timerdto.StateOutput {
	states, cancel := i.mgr.Subscribe(8)
	out := make(chan timerdto.StateOutput, 8)
	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case st, ok := <-states:
				if !ok {
					return
				}
				select {
				case out <- i.output(st):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (i *Interactor) SetFocusVisible(visible bool) {
	i.mgr.SetFocusVisible(visible)
}

func (i *Interactor) wrap(st domain.State, err error) (timerdto.StateOutput, error) {
	if err != nil {
		return timerdto.StateOutput{}, err
	}
	return i.output(st), nil
}

func (i *Interactor) output(st domain.State) timerdto.StateOutput {
	th := i.mgr.Thresholds()
	elapsed := i.mgr.ElapsedFor(st)
	out := timerdto.StateOutput{
		State:   st.Kind.String(),
		Elapsed: elapsed,
		Reason:  string(st.Reason),
		Result:  string(st.Result),
		Tier1:   th.Tier1,
		Tier2:   th.Tier2,
		Tier3:   th.Tier3,
	}
	if st.Kind == domain.KindIncubating {
		out.StartTime = st.StartTime
	}
	if st.Kind != domain.KindIdle {
		out.Progress = domain.ProgressAt(elapsed, th)
	}
	out.Remaining = domain.RemainingAt(elapsed, th)
	out.RemainingText = domain.FormatRemaining(out.Remaining)
	return out
}
