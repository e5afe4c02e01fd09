package database

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/gridwatt/energychain/foundation/energychain/account"
)

// zeroHash is the previous-hash value carried by the genesis block.
const zeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// BlockHeader represents the common information required for each block.
type BlockHeader struct {
	Number        uint64     `json:"number"`
	TimeStamp     uint64     `json:"timestamp"`
	PrevBlockHash string     `json:"prev_block_hash"`
	Nonce         uint64     `json:"nonce"`
	Difficulty    uint       `json:"difficulty"`
	BeneficiaryID account.ID `json:"beneficiary"`
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Trans  []Tx
}

// =============================================================================

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic puzzle. The search can be cancelled through the
// context; the partially mined block is discarded in that case.
func POW(ctx context.Context, beneficiaryID account.ID, difficulty uint, prevBlock Block, trans []Tx, evHandler func(v string, args ...any)) (Block, error) {
	nb := Block{
		Header: BlockHeader{
			Number:        prevBlock.Header.Number + 1,
			TimeStamp:     uint64(time.Now().UTC().Unix()),
			PrevBlockHash: prevBlock.Hash(),
			Nonce:         0, // Will be identified by the POW algorithm.
			Difficulty:    difficulty,
			BeneficiaryID: beneficiaryID,
		},
		Trans: trans,
	}

	if err := nb.performPOW(ctx, evHandler); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for the block.
// Pointer semantics are being used since a nonce is being discovered.
func (b *Block) performPOW(ctx context.Context, ev func(v string, args ...any)) error {
	ev("database: performPOW: MINING: started: txs[%d]", len(b.Trans))
	defer ev("database: performPOW: MINING: completed")

	// Choose a random starting point for the nonce and increment from there.
	nBig, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return err
	}
	b.Header.Nonce = nBig.Uint64()

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: performPOW: MINING: attempts[%d]", attempts)
		}

		if ctx.Err() != nil {
			ev("database: performPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		hash := b.Hash()
		if !isHashSolved(b.Header.Difficulty, hash) {
			b.Header.Nonce++
			continue
		}

		ev("database: performPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.Header.PrevBlockHash, hash)
		ev("database: performPOW: MINING: attempts[%d]", attempts)

		return nil
	}
}

// Hash returns the unique hash for the block: the SHA-256 digest of the
// block number, timestamp, ordered transaction list, previous hash, and
// nonce, rendered as hex. This serialization is the audit contract; the
// chain is re-checkable from stored blocks alone.
func (b Block) Hash() string {
	input := struct {
		Number        uint64 `json:"number"`
		TimeStamp     uint64 `json:"timestamp"`
		Trans         []Tx   `json:"trans"`
		PrevBlockHash string `json:"prev_block_hash"`
		Nonce         uint64 `json:"nonce"`
	}{
		Number:        b.Header.Number,
		TimeStamp:     b.Header.TimeStamp,
		Trans:         b.Trans,
		PrevBlockHash: b.Header.PrevBlockHash,
		Nonce:         b.Header.Nonce,
	}

	data, err := json.Marshal(input)
	if err != nil {
		return zeroHash
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ValidateBlock takes a block and validates it to be included into the
// chain after the specified previous block.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: blk[%d]: check: block number is the next number", b.Header.Number)

	nextNumber := previousBlock.Header.Number + 1
	if b.Header.Number != nextNumber {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Header.Number, nextNumber)
	}

	evHandler("database: ValidateBlock: blk[%d]: check: parent hash matches parent block", b.Header.Number)

	if b.Header.PrevBlockHash != previousBlock.Hash() {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.Header.PrevBlockHash, previousBlock.Hash())
	}

	evHandler("database: ValidateBlock: blk[%d]: check: block hash has been solved", b.Header.Number)

	hash := b.Hash()
	if !isHashSolved(b.Header.Difficulty, hash) {
		return fmt.Errorf("%s invalid block hash", hash)
	}

	return nil
}

// isHashSolved checks the hash to make sure it complies with the POW rules:
// the hex digest must carry the difficulty number of leading 0's.
func isHashSolved(difficulty uint, hash string) bool {
	const match = "00000000000000000"

	if len(hash) != 64 || difficulty > uint(len(match)) {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}

// =============================================================================

// BlockData represents a block as serialized for storage and the API. The
// hash is stored alongside the header so history can be audited without
// re-mining.
type BlockData struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"header"`
	Trans  []Tx        `json:"trans"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(block Block) BlockData {
	return BlockData{
		Hash:   block.Hash(),
		Header: block.Header,
		Trans:  block.Trans,
	}
}

// ToBlock converts a stored BlockData back into a Block.
func ToBlock(blockData BlockData) Block {
	return Block{
		Header: blockData.Header,
		Trans:  blockData.Trans,
	}
}
