package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// KnownEvents are event signatures emitted by token and rental contracts.
var KnownEvents = []string{
	"Transfer(address,address,uint256)",
	"Approval(address,address,uint256)",
	"ApprovalForAll(address,address,bool)",
	"UpdateUser(uint256,address,uint64)", // ERC-4907 rentable NFT
	"TransferSingle(address,address,address,uint256,uint256)",
	"TransferBatch(address,address,address,uint256[],uint256[])",
	"OwnershipTransferred(address,address)",
}

var knownTopics = func() map[string]string {
	m := make(map[string]string, len(KnownEvents))
	for _, sig := range KnownEvents {
		m[crypto.Keccak256Hash([]byte(sig)).Hex()] = sig[:strings.IndexByte(sig, '(')]
	}
	return m
}()

// EventName returns the name of a well-known event by its signature topic.
func EventName(topic string) (string, bool) {
	name, ok := knownTopics[strings.ToLower(topic)]
	return name, ok
}
