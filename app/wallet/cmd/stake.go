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

var stakeAmount float64

// stakeCmd represents the stake command.
var stakeCmd = &cobra.Command{
	Use:   "stake",
	Short: "Stake GRID tokens",
	Run: func(cmd *cobra.Command, args []string) {
		stakeRequest("stake")
	},
}

// unstakeCmd represents the unstake command.
var unstakeCmd = &cobra.Command{
	Use:   "unstake",
	Short: "Unstake GRID tokens",
	Run: func(cmd *cobra.Command, args []string) {
		stakeRequest("unstake")
	},
}

func stakeRequest(endpoint string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}
	account := crypto.PubkeyToAddress(privateKey.PublicKey)

	payload := struct {
		Account string  `json:"account"`
		Amount  float64 `json:"amount"`
	}{
		Account: account.String(),
		Amount:  stakeAmount,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/%s", url, endpoint), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	fmt.Println("status:", resp.Status)
}

func init() {
	rootCmd.AddCommand(stakeCmd)
	rootCmd.AddCommand(unstakeCmd)
	stakeCmd.Flags().Float64VarP(&stakeAmount, "amount", "a", 0, "Amount of GRID to stake.")
	stakeCmd.MarkFlagRequired("amount")
	unstakeCmd.Flags().Float64VarP(&stakeAmount, "amount", "a", 0, "Amount of GRID to unstake.")
	unstakeCmd.MarkFlagRequired("amount")
}
