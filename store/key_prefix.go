package store

import (
	"fmt"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
)

// Declare database key prefix for objects
const (
	PrefixRole = "role:"

	PrefixFundingRequest = "freq:"
	PrefixApproval       = "fappr:"

	PrefixAccount = "acct:"
	PrefixVesting = "vest:"

	PrefixMeta           = "meta:"
	MetaKeyNextRequestID = "meta:next_request_id"
	MetaKeyNextVestingID = "meta:next_vesting_id"

	KeyPoolState = "pool:state"
)

// ids are zero padded so that byte order matches numeric order
func idKey(prefix string, id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

func roleMembersPrefix(role string) []byte {
	return []byte(PrefixRole + role + ":")
}

func roleKey(role string, addr common.Address) []byte {
	return []byte(PrefixRole + role + ":" + addr.String())
}

func approvalsPrefix(requestID uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", PrefixApproval, requestID))
}

func approvalKey(requestID uint64, trustee common.Address) []byte {
	return append(approvalsPrefix(requestID), trustee.String()...)
}

func accountKey(addr common.Address) []byte {
	return []byte(PrefixAccount + addr.String())
}
