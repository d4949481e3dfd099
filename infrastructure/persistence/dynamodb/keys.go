package dynamodb

import (
	"fmt"
	"strconv"
	"strings"
)

// Key prefixes for the single-table layout
const (
	userPrefix     = "USER#"
	postPrefix     = "POST#"
	followPrefix   = "FOLLOWS#"
	followerPrefix = "FOLLOWER#"
	commentPrefix  = "COMMENT#"
	notifPrefix    = "NOTIF#"

	profileSK  = "PROFILE"
	metadataSK = "METADATA"

	accountPartition = "ACCOUNT"
	uniquePrefix     = "UNIQ#"
	counterPK        = "SEQ#GLOBAL"
)

// timeOrderedSK builds a sort key that orders records by creation time
// with the record's sequence number as tie-break. Both components are
// zero-padded so lexicographic order matches numeric order.
func timeOrderedSK(prefix string, createdAt int64, id string) string {
	return fmt.Sprintf("%s%013d#%012d", prefix, createdAt, idSequence(id))
}

// idSequence extracts the numeric part of a prefixed record id ("p42"
// → 42). Unparseable ids sort first.
func idSequence(id string) int64 {
	trimmed := strings.TrimLeft(id, "pcn")
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func userPK(userID string) string {
	return userPrefix + userID
}

func postPK(postID string) string {
	return postPrefix + postID
}
