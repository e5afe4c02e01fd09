package database

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/genesis"
	"github.com/gridwatt/energychain/foundation/energychain/token"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	miner  = account.ID("0xFef311483Cc040e1A89fb9bb286f8f21902f4417")
	buyer  = account.ID("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
	seller = account.ID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
)

var nopEv = func(v string, args ...any) {}

func testGenesis() genesis.Genesis {
	return genesis.Genesis{
		Date:         time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:      1,
		Difficulty:   2,
		MiningReward: 7_000_000,
	}
}

func testTrans() []Tx {
	return []Tx{
		NewEnergyTradeTx(buyer, seller, 1_500, 1_500, 22_500),
		NewGridFeeTx(buyer, "", 1_125),
		NewRewardTx(miner, 7_000_000),
	}
}

// memorySerializer keeps blocks in a slice. The real stores live in the
// storage packages; tests only need the Serializer contract.
type memorySerializer struct {
	blocks []BlockData
}

func (ms *memorySerializer) Write(blockData BlockData) error {
	ms.blocks = append(ms.blocks, blockData)
	return nil
}

func (ms *memorySerializer) GetBlock(num uint64) (BlockData, error) {
	if num >= uint64(len(ms.blocks)) {
		return BlockData{}, ErrBlockNotFound
	}
	return ms.blocks[num], nil
}

func (ms *memorySerializer) ForEach() Iterator { return &memoryIterator{serializer: ms} }
func (ms *memorySerializer) Close() error      { return nil }
func (ms *memorySerializer) Reset() error      { ms.blocks = nil; return nil }

type memoryIterator struct {
	serializer *memorySerializer
	current    uint64
	eoc        bool
}

func (mi *memoryIterator) Next() (BlockData, error) {
	if mi.current >= uint64(len(mi.serializer.blocks)) {
		mi.eoc = true
		return BlockData{}, nil
	}
	blockData := mi.serializer.blocks[mi.current]
	mi.current++
	return blockData, nil
}

func (mi *memoryIterator) Done() bool { return mi.eoc }

// =============================================================================

func Test_POW(t *testing.T) {
	t.Log("Given the need to mine blocks with proof of work.")
	{
		t.Logf("\tTest 0:\tWhen mining a block of three transactions at difficulty 2.")
		{
			db, err := New(testGenesis(), &memorySerializer{}, nopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to open the database: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to open the database.", success)

			prev := db.LatestBlock()
			trans := testTrans()

			block, err := POW(context.Background(), miner, 2, prev, trans, nopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine the block.", success)

			if block.Header.Number != prev.Header.Number+1 {
				t.Errorf("\t%s\tTest 0:\tShould carry the next block number: got %d.", failed, block.Header.Number)
			} else {
				t.Logf("\t%s\tTest 0:\tShould carry the next block number.", success)
			}

			if block.Header.PrevBlockHash != prev.Hash() {
				t.Errorf("\t%s\tTest 0:\tShould link to the previous block's hash.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould link to the previous block's hash.", success)
			}

			hash := block.Hash()
			if !strings.HasPrefix(hash, "00") {
				t.Errorf("\t%s\tTest 0:\tShould produce a hash with 2 leading zeros: got %s.", failed, hash)
			} else {
				t.Logf("\t%s\tTest 0:\tShould produce a hash with 2 leading zeros.", success)
			}

			if len(block.Trans) != 3 {
				t.Errorf("\t%s\tTest 0:\tShould carry all three transactions: got %d.", failed, len(block.Trans))
			} else {
				t.Logf("\t%s\tTest 0:\tShould carry all three transactions.", success)
			}

			if err := db.Append(block); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to append the mined block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to append the mined block.", success)

			if db.Height() != 1 {
				t.Errorf("\t%s\tTest 0:\tShould report a chain height of 1: got %d.", failed, db.Height())
			} else {
				t.Logf("\t%s\tTest 0:\tShould report a chain height of 1.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen the mining context is cancelled.")
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			genesisBlock := Block{Header: BlockHeader{Number: 0, PrevBlockHash: zeroHash, Difficulty: 2}}

			if _, err := POW(ctx, miner, 2, genesisBlock, testTrans(), nopEv); err == nil {
				t.Errorf("\t%s\tTest 1:\tShould abandon the search on cancellation.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould abandon the search on cancellation.", success)
			}
		}
	}
}

func Test_HashDeterminism(t *testing.T) {
	t.Log("Given the need for a stable block hash.")
	{
		t.Logf("\tTest 0:\tWhen hashing the same block twice.")
		{
			block := Block{
				Header: BlockHeader{
					Number:        1,
					TimeStamp:     uint64(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()),
					PrevBlockHash: zeroHash,
					Nonce:         42,
					Difficulty:    2,
					BeneficiaryID: miner,
				},
				Trans: testTrans(),
			}

			if block.Hash() != block.Hash() {
				t.Errorf("\t%s\tTest 0:\tShould produce the same hash both times.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould produce the same hash both times.", success)
			}

			if len(block.Hash()) != 64 {
				t.Errorf("\t%s\tTest 0:\tShould produce a 64 character hex digest.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould produce a 64 character hex digest.", success)
			}

			tampered := block
			tampered.Header.Nonce++
			if block.Hash() == tampered.Hash() {
				t.Errorf("\t%s\tTest 0:\tShould produce a different hash after a nonce change.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould produce a different hash after a nonce change.", success)
			}
		}
	}
}

func Test_ValidateChain(t *testing.T) {
	t.Log("Given the need to audit chain history end to end.")
	{
		t.Logf("\tTest 0:\tWhen validating an honestly mined chain.")
		{
			db := mineChain(t, 3)

			if err := db.ValidateChain(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould validate the full chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould validate the full chain.", success)
		}

		t.Logf("\tTest 1:\tWhen a stored transaction has been tampered with.")
		{
			db := mineChain(t, 2)

			db.blocks[1].Trans[0].Amount += 1

			err := db.ValidateChain()
			if err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould detect the tampered transaction.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould detect the tampered transaction.", success)

			if !strings.Contains(err.Error(), "does not match computed") {
				t.Errorf("\t%s\tTest 1:\tShould report a hash mismatch: %v.", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould report a hash mismatch.", success)
			}
		}

		t.Logf("\tTest 2:\tWhen the stored genesis entry has been tampered with.")
		{
			db := mineChain(t, 1)

			db.blocks[0].Header.TimeStamp += 1

			err := db.ValidateChain()
			if err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould detect the tampered genesis block.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould detect the tampered genesis block.", success)

			if !strings.Contains(err.Error(), "does not match computed") {
				t.Errorf("\t%s\tTest 2:\tShould report a hash mismatch: %v.", failed, err)
			} else {
				t.Logf("\t%s\tTest 2:\tShould report a hash mismatch.", success)
			}
		}

		t.Logf("\tTest 3:\tWhen a block is reloaded from an existing store.")
		{
			serializer := &memorySerializer{}

			db, err := New(testGenesis(), serializer, nopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to open the database: %v", failed, err)
			}

			block, err := POW(context.Background(), miner, 2, db.LatestBlock(), testTrans(), nopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to mine a block: %v", failed, err)
			}
			if err := db.Append(block); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to append the block: %v", failed, err)
			}

			reopened, err := New(testGenesis(), serializer, nopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to reopen the database: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould be able to reopen the database.", success)

			if reopened.Height() != 1 {
				t.Errorf("\t%s\tTest 3:\tShould recover the chain height: got %d.", failed, reopened.Height())
			} else {
				t.Logf("\t%s\tTest 3:\tShould recover the chain height.", success)
			}

			if reopened.LatestBlock().Hash() != db.LatestBlock().Hash() {
				t.Errorf("\t%s\tTest 3:\tShould recover the same tip hash.", failed)
			} else {
				t.Logf("\t%s\tTest 3:\tShould recover the same tip hash.", success)
			}

			// A corrupted genesis entry in the store must fail the open.
			serializer.blocks[0].Header.TimeStamp += 1

			if _, err := New(testGenesis(), serializer, nopEv); err == nil {
				t.Errorf("\t%s\tTest 3:\tShould reject a store with a corrupted genesis entry.", failed)
			} else {
				t.Logf("\t%s\tTest 3:\tShould reject a store with a corrupted genesis entry.", success)
			}
		}

		t.Logf("\tTest 4:\tWhen appending a block that does not link to the tip.")
		{
			db := mineChain(t, 1)

			orphan := Block{
				Header: BlockHeader{
					Number:        db.Height() + 1,
					TimeStamp:     uint64(time.Now().UTC().Unix()),
					PrevBlockHash: zeroHash,
					Difficulty:    2,
					BeneficiaryID: miner,
				},
				Trans: testTrans(),
			}

			if err := db.Append(orphan); err == nil {
				t.Errorf("\t%s\tTest 4:\tShould reject the unlinked block.", failed)
			} else {
				t.Logf("\t%s\tTest 4:\tShould reject the unlinked block.", success)
			}
		}
	}
}

// mineChain opens a fresh database and mines the specified number of blocks
// on top of genesis.
func mineChain(t *testing.T, blocks int) *Database {
	t.Helper()

	db, err := New(testGenesis(), &memorySerializer{}, nopEv)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}

	for i := 0; i < blocks; i++ {
		trans := []Tx{
			NewTransferTx(token.Grid, buyer, seller, uint64(1_000*(i+1))),
			NewRewardTx(miner, 7_000_000),
		}

		block, err := POW(context.Background(), miner, 2, db.LatestBlock(), trans, nopEv)
		if err != nil {
			t.Fatalf("mining block %d: %v", i+1, err)
		}
		if err := db.Append(block); err != nil {
			t.Fatalf("appending block %d: %v", i+1, err)
		}
	}

	return db
}
