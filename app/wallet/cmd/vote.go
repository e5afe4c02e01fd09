package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	voteProposalID uint64
	voteAgainst    bool
)

// voteCmd represents the vote command.
var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Cast a stake-weighted vote on a governance proposal",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		account := crypto.PubkeyToAddress(privateKey.PublicKey)

		support := !voteAgainst
		payload := struct {
			ProposalID uint64 `json:"proposal_id"`
			Voter      string `json:"voter"`
			Support    *bool  `json:"support"`
		}{
			ProposalID: voteProposalID,
			Voter:      account.String(),
			Support:    &support,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			log.Fatal(err)
		}

		resp, err := http.Post(fmt.Sprintf("%s/v1/proposals/vote", url), "application/json", bytes.NewBuffer(data))
		if err != nil {
			log.Fatal(err)
		}
		defer resp.Body.Close()

		fmt.Println("status:", resp.Status)
	},
}

func init() {
	rootCmd.AddCommand(voteCmd)
	voteCmd.Flags().Uint64VarP(&voteProposalID, "proposal", "i", 0, "Proposal id to vote on.")
	voteCmd.MarkFlagRequired("proposal")
	voteCmd.Flags().BoolVarP(&voteAgainst, "against", "n", false, "Vote against instead of for.")
}
