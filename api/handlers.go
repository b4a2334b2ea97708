package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/jsonx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/security/validation"
	"github.com/abya-university/ABYA-Ecosystem-sub001/treasury"
	"github.com/abya-university/ABYA-Ecosystem-sub001/types"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, HealthResponse{Status: "ok", Time: s.now().UTC()})
}

func caller(r *http.Request) common.Address {
	addr, _ := CallerFrom(r.Context())
	return addr
}

func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := jsonx.NewDecoder(r.Body).Decode(out); err != nil {
		badRequest(w, "invalid JSON body: %v", err)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		badRequest(w, "invalid id %q", mux.Vars(r)["id"])
		return 0, false
	}
	return id, true
}

func pathAddress(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	addr, err := parseAddressField("address", mux.Vars(r)["address"])
	if err != nil {
		badRequest(w, "%v", err)
		return "", false
	}
	return addr, true
}

// Trustee registry

func (s *Server) listTrustees(w http.ResponseWriter, r *http.Request) {
	trustees, err := s.svc.ListTrustees()
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, TrusteesResponse{Trustees: trustees, Count: len(trustees)})
}

func (s *Server) addTrustee(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if !decodeBody(w, r, &req) {
		return
	}
	addr, err := parseAddressField("address", req.Address)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	if err := s.svc.AddTrustee(caller(r), addr); err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, AddressRequest{Address: addr.String()})
}

func (s *Server) revokeTrustee(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathAddress(w, r)
	if !ok {
		return
	}
	if err := s.svc.RevokeTrustee(caller(r), addr); err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, StatusResponse{Status: "revoked"})
}

func (s *Server) grantTreasurer(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if !decodeBody(w, r, &req) {
		return
	}
	addr, err := parseAddressField("address", req.Address)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	if err := s.svc.GrantTreasurer(caller(r), addr); err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, AddressRequest{Address: addr.String()})
}

func (s *Server) revokeTreasurer(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathAddress(w, r)
	if !ok {
		return
	}
	if err := s.svc.RevokeTreasurer(caller(r), addr); err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, StatusResponse{Status: "revoked"})
}

// Funding requests

func (s *Server) requestFunding(w http.ResponseWriter, r *http.Request) {
	var req FundingRequestBody
	if !decodeBody(w, r, &req) {
		return
	}
	recipient, err := parseAddressField("recipient", req.Recipient)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	if err := validation.ValidateLongText(validation.PurposeField, req.Purpose); err != nil {
		writeValidationError(w, err)
		return
	}

	created, err := s.svc.RequestFunding(caller(r), recipient, amount, req.Purpose)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	view, err := s.svc.GetFundingRequest(created.ID)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, view)
}

func (s *Server) listFundingRequests(w http.ResponseWriter, r *http.Request) {
	var status types.RequestStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := types.ParseRequestStatus(raw)
		if !ok {
			badRequest(w, "unknown status %q", raw)
			return
		}
		status = parsed
	}

	views, err := s.svc.ListFundingRequests(status)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, FundingRequestsResponse{Requests: views})
}

func (s *Server) getFundingRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	view, err := s.svc.GetFundingRequest(id)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, view)
}

func (s *Server) approveFundingRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	view, err := s.svc.ApproveFundingRequest(caller(r), id)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, view)
}

// Pool accounting

func (s *Server) allocateFunds(w http.ResponseWriter, r *http.Request) {
	var req AllocationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	recipient, err := parseAddressField("recipient", req.Recipient)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	if err := validation.ValidateCategory(req.Category); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := s.svc.AllocateFunds(caller(r), recipient, amount, req.Category); err != nil {
		writeTreasuryError(w, err)
		return
	}
	s.viewPool(w, r)
}

func (s *Server) depositReserve(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	pool, err := s.svc.DepositReserve(caller(r), amount)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, pool)
}

func (s *Server) viewPool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.svc.ViewPoolDetails()
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, pool)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathAddress(w, r)
	if !ok {
		return
	}
	balance, err := s.svc.BalanceOf(addr)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	roles, err := s.svc.RolesOf(addr)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	if roles == nil {
		roles = []treasury.Role{}
	}
	writeJSONResponse(w, http.StatusOK, AccountResponse{Address: addr, Balance: balance, Roles: roles})
}

// Vesting

func (s *Server) createVesting(w http.ResponseWriter, r *http.Request) {
	var req VestingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	beneficiary, err := parseAddressField("beneficiary", req.Beneficiary)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	total, err := ParseAmount(req.Total)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	cliff, err := secondsField("cliff_seconds", req.CliffSeconds)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	duration, err := secondsField("duration_seconds", req.DurationSeconds)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	var start time.Time
	if req.Start != "" {
		if start, err = time.Parse(time.RFC3339, req.Start); err != nil {
			badRequest(w, "invalid start: %v", err)
			return
		}
	}

	sched, err := s.svc.CreateVestingSchedule(caller(r), treasury.VestingParams{
		Beneficiary: beneficiary,
		Total:       total,
		Start:       start,
		Cliff:       cliff,
		Duration:    duration,
		Revocable:   req.Revocable,
	})
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	view, err := s.svc.GetVestingSchedule(sched.ID)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, view)
}

func (s *Server) getVesting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	view, err := s.svc.GetVestingSchedule(id)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, view)
}

func (s *Server) releaseVesting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	amount, err := s.svc.ReleaseVested(caller(r), id)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, AmountResponse{Amount: amount})
}

func (s *Server) revokeVesting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	refunded, err := s.svc.RevokeVesting(caller(r), id)
	if err != nil {
		writeTreasuryError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, AmountResponse{Amount: refunded})
}
