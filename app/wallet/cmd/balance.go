package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

// balanceCmd represents the balance command.
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your GRID and WATT balances.",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		account := crypto.PubkeyToAddress(privateKey.PublicKey)
		fmt.Println("For Account:", account)

		resp, err := http.Get(fmt.Sprintf("%s/v1/balances/list/%s", url, account))
		if err != nil {
			log.Fatal(err)
		}
		defer resp.Body.Close()

		var balances struct {
			Balances []struct {
				Account string  `json:"account"`
				Grid    float64 `json:"grid"`
				Watt    float64 `json:"watt"`
			} `json:"balances"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&balances); err != nil {
			log.Fatal(err)
		}

		if len(balances.Balances) > 0 {
			fmt.Printf("GRID: %.4f\n", balances.Balances[0].Grid)
			fmt.Printf("WATT: %.4f\n", balances.Balances[0].Watt)
		}
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
