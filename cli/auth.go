package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akinalp/durak/models"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Hesaba giriş yap",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = prompt("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt("Password: "); err != nil {
					return err
				}
			}

			session, err := app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (%s)\n", session.User.FullName(), session.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "hesap email adresi (boşsa sorulur)")
	cmd.Flags().StringVar(&password, "password", "", "hesap şifresi (boşsa sorulur)")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var req models.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Yeni yolcu hesabı oluştur",
		Long: "Yeni bir yolcu hesabı oluşturur. Kayıt oturum açmaz —\n" +
			"kayıttan sonra `durak login` ile giriş yapılır.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Register(cmd.Context(), &req); err != nil {
				return err
			}
			fmt.Printf("Account created for %s. Run `durak login` to sign in.\n", req.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email adresi")
	cmd.Flags().StringVar(&req.Password, "password", "", "şifre (en az 8 karakter)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "ad")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "soyad")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Oturumu kapat",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Aktif oturumu göster",
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.Session.Snapshot()
			if !session.Authenticated() {
				fmt.Println("Not logged in.")
				return nil
			}

			user := session.User
			if remote {
				// Backend'in gördüğü güncel kimliği sor — yerel kopya
				// başka bir cihazdan yapılan güncellemeyi görmemiş olabilir.
				fetched, err := app.API.Me(cmd.Context())
				if err != nil {
					return err
				}
				user = fetched
			}

			fmt.Printf("%s <%s>\n", user.FullName(), user.Email)
			fmt.Printf("Role:    %s\n", user.Role)
			fmt.Printf("Expires: %s\n", session.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "kimliği yerel kopya yerine backend'den sorgula")
	return cmd
}

func newProfileCmd(app *App) *cobra.Command {
	var email, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profil bilgilerini güncelle",
		Long: "Kimlik alanlarını günceller. Sadece verilen flag'ler değişir;\n" +
			"verilmeyen alanlar mevcut değerini korur.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &models.UpdateProfileRequest{}
			if cmd.Flags().Changed("email") {
				req.Email = &email
			}
			if cmd.Flags().Changed("first-name") {
				req.FirstName = &firstName
			}
			if cmd.Flags().Changed("last-name") {
				req.LastName = &lastName
			}
			if req.Email == nil && req.FirstName == nil && req.LastName == nil {
				return fmt.Errorf("nothing to update: pass at least one of --email, --first-name, --last-name")
			}

			user, err := app.Session.UpdateProfile(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Profile updated: %s <%s>\n", user.FullName(), user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "yeni email adresi")
	cmd.Flags().StringVar(&firstName, "first-name", "", "yeni ad")
	cmd.Flags().StringVar(&lastName, "last-name", "", "yeni soyad")
	return cmd
}

// prompt, stdin'den tek satır okur.
func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
