package httpapi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/fib-lab/traffic-dispatcher/internal/dispatch"
	"github.com/fib-lab/traffic-dispatcher/internal/store"
	"github.com/fib-lab/traffic-dispatcher/internal/topology"
)

var log = logrus.WithField("module", "httpapi")

// Server wires the process-wide store to the RPC endpoints.
type Server struct {
	store *store.Store
}

// NewServer returns a Server backed by s.
func NewServer(s *store.Store) *Server {
	return &Server{store: s}
}

// Router builds the gorilla/mux router for the service.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/setup", s.handleSetup).Methods(http.MethodPost)
	r.HandleFunc("/dispatch", s.handleDispatch).Methods(http.MethodPost)
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, newValidationError("malformed request body: %v", err))
		return
	}

	roads := make([]*topology.Road, 0, len(req.Roads))
	for _, rd := range req.Roads {
		road, err := roadFromDTO(rd)
		if err != nil {
			writeError(w, err)
			return
		}
		roads = append(roads, road)
	}

	junctions := make([]*topology.Junction, 0, len(req.Junctions))
	for _, jd := range req.Junctions {
		j, err := junctionFromDTO(jd)
		if err != nil {
			writeError(w, err)
			return
		}
		junctions = append(junctions, j)
	}

	slowdownZone := dispatch.DefaultSlowdownZone
	if req.SlowdownZone != nil {
		slowdownZone = *req.SlowdownZone
	}
	slowdownRate := dispatch.DefaultSlowdownRate
	if req.SlowdownRate != nil {
		slowdownRate = *req.SlowdownRate
	}

	s.store.Setup(store.SetupParams{
		Junctions:    junctions,
		Roads:        roads,
		CarTargets:   req.CarTargets,
		Overwrite:    req.Overwrite,
		SlowdownZone: slowdownZone,
		SlowdownRate: slowdownRate,
	})

	log.WithField("roads", len(roads)).
		WithField("junctions", len(junctions)).
		WithField("overwrite", req.Overwrite).
		Debug("setup applied")

	writeJSON(w, http.StatusOK, SetupResponse{Status: "success"})
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, newValidationError("malformed request body: %v", err))
		return
	}

	dt := 0.2
	if req.NextRequestInSeconds != nil {
		dt = *req.NextRequestInSeconds
	}

	snap := s.store.Snapshot()

	junctions := snap.Junctions
	if len(junctions) == 0 && len(req.Junctions) > 0 {
		junctions = make(map[string]*topology.Junction, len(req.Junctions))
		for _, jd := range req.Junctions {
			j, err := junctionFromDTO(jd)
			if err != nil {
				writeError(w, err)
				return
			}
			junctions[j.ID] = j
		}
	}
	junctionList := junctionValues(junctions)

	cars := make([]*dispatch.Car, 0, len(req.Cars))
	for _, cd := range req.Cars {
		c, err := carFromDTO(cd)
		if err != nil {
			writeError(w, err)
			return
		}
		resolveCar(c, &snap, junctionList)

		if cached, ok := s.store.CarCache(c.ID); ok {
			c.SecondsInTraffic = cached.SecondsInTraffic
			if c.TargetRoadID == "" {
				c.TargetRoadID = cached.TargetRoadID
			}
		}

		cars = append(cars, c)
	}

	alg := dispatch.Resolve(req.AlgorithmName)
	hp := dispatch.Hyperparams{
		SpeedDecay:         dispatch.DefaultSpeedDecay,
		JunctionBufferZone: dispatch.DefaultJunctionBufferZone,
		SlowdownZone:       snap.SlowdownZone,
		SlowdownRate:       snap.SlowdownRate,
	}.WithDefaults()

	if err := alg.Dispatch(cars, junctions, dt, hp); err != nil {
		if errors.Is(err, dispatch.ErrInvalidCombineMode) {
			writeError(w, newConfigurationError(err))
			return
		}
		writeError(w, newAlgorithmError(err))
		return
	}

	for _, c := range cars {
		nextWait := c.SecondsInTraffic + dt
		if c.Speed > 0.1 {
			nextWait = 0
		}
		s.store.UpdateCarCache(c.ID, nextWait, c.TargetRoadID)
	}

	logTickStats(alg.Name(), cars)

	out := lo.Map(cars, func(c *dispatch.Car, _ int) CarDTO { return carToDTO(c) })
	writeJSON(w, http.StatusOK, DispatchResponse{Cars: out})
}

// resolveCar fills in a car's Road/NextJunction handles from its position
// and heading. A road lookup miss leaves both nil; the car still rides along
// in the response, and the algorithm groups it by junction only if the
// request itself supplied a next_junction_id.
func resolveCar(c *dispatch.Car, snap *store.Snapshot, junctions []*topology.Junction) {
	road, ok := snap.Roads.GetRoadForPoint(c.X, c.Y, topology.DefaultProbeBuffer)
	if !ok {
		return
	}
	c.Road = road
	c.RoadID = road.ID

	end, err := topology.GetRoadEndCoordinates(snap.Roads, c.X, c.Y, c.Rotation, topology.DefaultEndpointBuffer)
	if err != nil {
		return
	}

	j, ok := topology.NearestJunction(junctions, end)
	if !ok {
		return
	}
	c.NextJunction = j
	if c.NextJunctionID == "" {
		c.NextJunctionID = j.ID
	}
}

func junctionValues(m map[string]*topology.Junction) []*topology.Junction {
	return lo.Values(m)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	log.WithField("status", status).WithError(err).Warn("request rejected")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
