package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/footprint/core/calc"
	"github.com/kilianp07/footprint/core/factors"
	"github.com/kilianp07/footprint/core/logger"
	"github.com/kilianp07/footprint/core/model"
	"github.com/kilianp07/footprint/core/normalize"
)

type remoteFunc func(ctx context.Context, a model.Activity) (Response, error)

func (f remoteFunc) Compute(ctx context.Context, a model.Activity) (Response, error) {
	return f(ctx, a)
}

type recordingLogger struct {
	logger.Nop
	mu      sync.Mutex
	entries []map[string]any
	msgs    []string
}

func (l *recordingLogger) Debugw(msg string, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
	l.entries = append(l.entries, fields)
}

func (l *recordingLogger) find(msg string) (map[string]any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, m := range l.msgs {
		if m == msg {
			return l.entries[i], true
		}
	}
	return nil, false
}

func electricityActivity() model.Activity {
	a := model.NewActivity()
	a.Energy.Electricity.KWhPerMonth = 350
	return a
}

func TestNoRemoteGoesLocal(t *testing.T) {
	r := New(factors.Default())
	out, err := r.ResolveActivity(context.Background(), electricityActivity())
	require.NoError(t, err)
	assert.Equal(t, model.SourceLocal, out.Source)
	assert.Equal(t, ReasonNoRemote, out.Reason)
	assert.Nil(t, out.Cause)
	assert.Equal(t, 36.35, out.Result.Summary.TotalWeeklyKgCO2)
	assert.Equal(t, []State{StateIdle, StateFallingBack, StateDone}, out.Trace)
}

func TestRemoteSuccess(t *testing.T) {
	var got model.Activity
	remote := remoteFunc(func(_ context.Context, a model.Activity) (Response, error) {
		got = a
		return Response{StatusCode: 200, Body: []byte(direct)}, nil
	})
	r := New(factors.Default(), WithRemote(remote))
	a := electricityActivity()
	out, err := r.ResolveActivity(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, a, got)
	assert.Equal(t, model.SourceRemote, out.Source)
	assert.Equal(t, ReasonNone, out.Reason)
	assert.Equal(t, ShapeDirect, out.Shape)
	assert.Equal(t, 36.0, out.Result.Summary.TotalWeeklyKgCO2)
	assert.Equal(t, []State{StateIdle, StateRequesting, StateSucceeded, StateDone}, out.Trace)
}

func TestFallbackReasons(t *testing.T) {
	cases := []struct {
		name   string
		remote remoteFunc
		reason Reason
	}{
		{"network", func(context.Context, model.Activity) (Response, error) {
			return Response{}, errors.New("connection refused")
		}, ReasonNetwork},
		{"status", func(context.Context, model.Activity) (Response, error) {
			return Response{StatusCode: 502, Body: []byte(direct)}, nil
		}, ReasonStatus},
		{"unparsable", func(context.Context, model.Activity) (Response, error) {
			return Response{StatusCode: 200, Body: []byte("<html>")}, nil
		}, ReasonUnparsable},
		{"shape", func(context.Context, model.Activity) (Response, error) {
			return Response{StatusCode: 200, Body: []byte(`{"message":"saved"}`)}, nil
		}, ReasonUnrecognizedShape},
		{"empty", func(context.Context, model.Activity) (Response, error) {
			return Response{StatusCode: 201, Body: []byte(`{"summary":{},"food":{}}`)}, nil
		}, ReasonEmpty},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := New(factors.Default(), WithRemote(c.remote))
			out, err := r.ResolveActivity(context.Background(), electricityActivity())
			require.NoError(t, err)
			assert.Equal(t, model.SourceLocal, out.Source)
			assert.Equal(t, c.reason, out.Reason)
			assert.ErrorIs(t, out.Cause, model.ErrRemoteUnavailable)
			assert.Equal(t, 36.35, out.Result.Summary.TotalWeeklyKgCO2)
			assert.Equal(t, model.CategoryEnergy, out.Result.Summary.HighestCategory)
			assert.Equal(t, []State{StateIdle, StateRequesting, StateFallingBack, StateDone}, out.Trace)
		})
	}
}

func TestTimeoutFallsBack(t *testing.T) {
	remote := remoteFunc(func(ctx context.Context, _ model.Activity) (Response, error) {
		<-ctx.Done()
		return Response{}, fmt.Errorf("post: %w", ctx.Err())
	})
	r := New(factors.Default(), WithRemote(remote), WithTimeout(20*time.Millisecond))
	out, err := r.ResolveActivity(context.Background(), electricityActivity())
	require.NoError(t, err)
	assert.Equal(t, model.SourceLocal, out.Source)
	assert.Equal(t, ReasonTimeout, out.Reason)
	assert.ErrorIs(t, out.Cause, context.DeadlineExceeded)
}

func TestCallerCancellationDeliversNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	remote := remoteFunc(func(rctx context.Context, _ model.Activity) (Response, error) {
		cancel()
		<-rctx.Done()
		return Response{}, rctx.Err()
	})
	r := New(factors.Default(), WithRemote(remote), WithTimeout(time.Minute))
	out, err := r.ResolveActivity(ctx, electricityActivity())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Outcome{}, out)
}

func TestCrossPathConsistency(t *testing.T) {
	a := electricityActivity()
	a.Transportation.Car = &model.Car{Type: model.CarPetrol, KmPerWeek: 150}
	a.Transportation.Flights = &model.Flights{DomesticPerYear: 2, InternationalPerYear: 1}
	a.Food.Meat.Beef = 0.5
	a.Waste.Levels.Organic = model.WasteMedium

	local, err := New(factors.Default()).ResolveActivity(context.Background(), a)
	require.NoError(t, err)

	remote := remoteFunc(func(_ context.Context, act model.Activity) (Response, error) {
		res, err := calc.Local(act, factors.Default())
		if err != nil {
			return Response{}, err
		}
		b, err := json.Marshal(map[string]any{"message": "ok", "results": res})
		return Response{StatusCode: 200, Body: b}, err
	})
	viaRemote, err := New(factors.Default(), WithRemote(remote)).ResolveActivity(context.Background(), a)
	require.NoError(t, err)

	assert.Equal(t, model.SourceRemote, viaRemote.Source)
	assert.Equal(t, ShapeWrapped, viaRemote.Shape)
	assert.Equal(t, local.Result, viaRemote.Result)
}

func TestDivergenceIsLoggedNotApplied(t *testing.T) {
	log := &recordingLogger{}
	remote := remoteFunc(func(context.Context, model.Activity) (Response, error) {
		return Response{StatusCode: 200, Body: []byte(direct)}, nil
	})
	r := New(factors.Default(), WithRemote(remote), WithLogger(log))
	out, err := r.ResolveActivity(context.Background(), electricityActivity())
	require.NoError(t, err)
	assert.Equal(t, 36.0, out.Result.Summary.TotalWeeklyKgCO2)

	fields, ok := log.find("remote and local totals diverge")
	require.True(t, ok)
	assert.Equal(t, -0.35, fields["divergence_kg"])
}

func TestResolveRejectsInvalidEnumBeforeNetwork(t *testing.T) {
	called := false
	remote := remoteFunc(func(context.Context, model.Activity) (Response, error) {
		called = true
		return Response{}, nil
	})
	r := New(factors.Default(), WithRemote(remote))
	form := normalize.RawForm{Energy: normalize.EnergyForm{GridType: "Electricity (Wind)"}}
	_, err := r.Resolve(context.Background(), form)
	assert.ErrorIs(t, err, model.ErrInvalidEnumValue)
	assert.False(t, called)
}

func TestResolveForm(t *testing.T) {
	form := normalize.RawForm{
		Transport: normalize.TransportForm{FlightsDomesticPerYear: "2", FlightsInternationalPerYear: "1"},
	}
	out, err := New(factors.Default()).Resolve(context.Background(), form)
	require.NoError(t, err)
	assert.InDelta(t, 20.38, out.Result.Transportation.WeeklyKgCO2, 0.005)
	assert.Equal(t, 20.38, out.Result.Summary.TotalWeeklyKgCO2)
	assert.Equal(t, model.CategoryTransportation, out.Result.Summary.HighestCategory)
	require.NotNil(t, out.Activity.Transportation.Flights)
}

func TestLocalErrorSurfaces(t *testing.T) {
	tbl, err := factors.New(map[model.Category]map[string]float64{
		model.CategoryEnergy: {string(model.GridUSAverage): 0.45},
	}, nil)
	require.NoError(t, err)
	_, err = New(tbl).ResolveActivity(context.Background(), model.NewActivity())
	assert.ErrorIs(t, err, model.ErrUnknownFactorKind)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "falling_back", StateFallingBack.String())
	assert.True(t, canMove(StateIdle, StateRequesting))
	assert.False(t, canMove(StateDone, StateRequesting))
	assert.False(t, canMove(StateSucceeded, StateFallingBack))
}

// A remote that reports categories and a pre-rounded weekly total under the
// alias key, without an annual total, must still agree with local figures.
func TestCrossPathConsistencyRoundedSummary(t *testing.T) {
	cases := map[string]func() model.Activity{
		"electricity": electricityActivity,
		"mixed": func() model.Activity {
			a := electricityActivity()
			a.Transportation.Car = &model.Car{Type: model.CarDiesel, KmPerWeek: 123.4}
			a.Transportation.Flights = &model.Flights{DomesticPerYear: 3, InternationalPerYear: 2}
			a.Food.Meat.Chicken = 1.3
			a.Food.Dairy.Cheese = 0.27
			a.Waste.Levels.Paper = model.WasteHigh
			return a
		},
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			a := build()
			local, err := New(factors.Default()).ResolveActivity(context.Background(), a)
			require.NoError(t, err)

			remote := remoteFunc(func(_ context.Context, act model.Activity) (Response, error) {
				res, err := calc.Local(act, factors.Default())
				if err != nil {
					return Response{}, err
				}
				body := map[string]any{
					"transportation": map[string]any{"weekly_kg_co2": res.Transportation.WeeklyKgCO2},
					"energy":         map[string]any{"weekly_kg_co2": res.Energy.WeeklyKgCO2},
					"food":           map[string]any{"weekly_kg_co2": res.Food.WeeklyKgCO2},
					"waste":          map[string]any{"weekly_kg_co2": res.Waste.WeeklyKgCO2},
					"summary": map[string]any{
						"total_weekly_kg_co2":            res.Summary.TotalWeeklyKgCO2,
						"category_with_highest_emission": string(res.Summary.HighestCategory),
					},
				}
				b, err := json.Marshal(body)
				return Response{StatusCode: 201, Body: b}, err
			})
			viaRemote, err := New(factors.Default(), WithRemote(remote)).ResolveActivity(context.Background(), a)
			require.NoError(t, err)
			assert.Equal(t, model.SourceRemote, viaRemote.Source)
			assert.Equal(t, ShapeDirect, viaRemote.Shape)
			assert.Equal(t, local.Result, viaRemote.Result)
		})
	}
}
