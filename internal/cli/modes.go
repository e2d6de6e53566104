package cli

import (
	"github.com/harun/parley/pkg/conversation"
	"github.com/spf13/cobra"
)

var (
	exploreFile string
	exploreMIME string
)

var observerCmd = &cobra.Command{
	Use:   "observer",
	Short: "Watch the two agents talk to each other",
	Long: `Start observer mode directly. AI1 opens the conversation, then the
agents take turns. Between turns press Enter to continue, type a message
to steer the conversation, or type 'quit'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, conversation.ModeObserver, conversation.NewObserver())
	},
}

var chatRoomCmd = &cobra.Command{
	Use:     "chatroom",
	Aliases: []string{"chat"},
	Short:   "Chat with both agents at once",
	Long: `Start chat room mode directly. Every message you send goes to both
agents; each agent is then told what the other one answered.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, conversation.ModeChatRoom, conversation.NewChatRoom())
	},
}

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Let the agents discuss a file together",
	Long: `Start cooperative exploration directly. The file is uploaded once and
both agents discuss it, each seeing the whole discussion so far. Without
--file you are asked for the path and MIME type.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, conversation.ModeExplore, conversation.NewExplore(exploreFile, exploreMIME))
	},
}

func init() {
	exploreCmd.Flags().StringVarP(&exploreFile, "file", "f", "", "file to discuss")
	exploreCmd.Flags().StringVar(&exploreMIME, "mime", "", "MIME type of the file (guessed from the extension when empty)")

	rootCmd.AddCommand(observerCmd)
	rootCmd.AddCommand(chatRoomCmd)
	rootCmd.AddCommand(exploreCmd)
}
