package mempool_test

import (
	"testing"

	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/database"
	"github.com/gridwatt/energychain/foundation/energychain/mempool"
	"github.com/gridwatt/energychain/foundation/energychain/token"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	alice = account.ID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
	bob   = account.ID("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
)

func Test_Mempool(t *testing.T) {
	t.Log("Given the need to pool transactions waiting to be mined.")
	{
		t.Logf("\tTest 0:\tWhen adding and removing transactions.")
		{
			mp := mempool.New()

			tx1 := database.NewTransferTx(token.Grid, alice, bob, 1_000)
			tx2 := database.NewStakeTx(alice, 5_000)

			if n := mp.Upsert(tx1); n != 1 {
				t.Errorf("\t%s\tTest 0:\tShould report 1 transaction after the first upsert: got %d.", failed, n)
			} else {
				t.Logf("\t%s\tTest 0:\tShould report 1 transaction after the first upsert.", success)
			}

			if n := mp.Upsert(tx2); n != 2 {
				t.Errorf("\t%s\tTest 0:\tShould report 2 transactions after the second upsert: got %d.", failed, n)
			} else {
				t.Logf("\t%s\tTest 0:\tShould report 2 transactions after the second upsert.", success)
			}

			// Re-upserting the same id replaces, not duplicates.
			tx1.Amount = 2_000
			if n := mp.Upsert(tx1); n != 2 {
				t.Errorf("\t%s\tTest 0:\tShould replace on upsert of the same id: got %d.", failed, n)
			} else {
				t.Logf("\t%s\tTest 0:\tShould replace on upsert of the same id.", success)
			}

			mp.Delete(tx1)
			if mp.Count() != 1 {
				t.Errorf("\t%s\tTest 0:\tShould report 1 transaction after delete: got %d.", failed, mp.Count())
			} else {
				t.Logf("\t%s\tTest 0:\tShould report 1 transaction after delete.", success)
			}

			mp.Truncate()
			if mp.Count() != 0 {
				t.Errorf("\t%s\tTest 0:\tShould be empty after truncate: got %d.", failed, mp.Count())
			} else {
				t.Logf("\t%s\tTest 0:\tShould be empty after truncate.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen selecting transactions for a block.")
		{
			mp := mempool.New()

			txs := []database.Tx{
				{ID: "c", Type: database.TxTransfer, TimeStamp: 300},
				{ID: "a", Type: database.TxTransfer, TimeStamp: 100},
				{ID: "d", Type: database.TxTransfer, TimeStamp: 200},
				{ID: "b", Type: database.TxTransfer, TimeStamp: 200},
			}
			for _, tx := range txs {
				mp.Upsert(tx)
			}

			best := mp.PickBest()
			if len(best) != 4 {
				t.Fatalf("\t%s\tTest 1:\tShould select every pooled transaction: got %d.", failed, len(best))
			}
			t.Logf("\t%s\tTest 1:\tShould select every pooled transaction.", success)

			want := []string{"a", "b", "d", "c"}
			ordered := true
			for i, tx := range best {
				if tx.ID != want[i] {
					ordered = false
				}
			}
			if !ordered {
				t.Errorf("\t%s\tTest 1:\tShould order by timestamp then id: got %v.", failed, best)
			} else {
				t.Logf("\t%s\tTest 1:\tShould order by timestamp then id.", success)
			}

			// The snapshot is independent of later pool mutation.
			mp.Truncate()
			if len(best) != 4 {
				t.Errorf("\t%s\tTest 1:\tShould keep the snapshot after truncate.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould keep the snapshot after truncate.", success)
			}
		}
	}
}
