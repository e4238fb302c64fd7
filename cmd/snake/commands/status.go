package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/battlesnakeio/snake/rules"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func init() {
	statusCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to get the status of")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "gets the status of a game from the snake server",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		data, err := getJSON(fmt.Sprintf("%s/games/%s", apiAddr, gameID))
		if err != nil {
			fmt.Println("error while getting game status", err)
			return
		}

		st := rules.State{}
		if err = json.Unmarshal(data, &st); err != nil {
			fmt.Println(string(data))
			fmt.Println("unable to unmarshal status response: ", err)
			return
		}
		spew.Dump(st)
	},
}

func getJSON(url string) ([]byte, error) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", resp.Status, data)
	}
	return data, nil
}
