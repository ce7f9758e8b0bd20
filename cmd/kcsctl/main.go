package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/directory"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/jwt"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/security/password"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "kcsctl",
		Short:         "Herramientas operativas del gateway de autenticación",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)

	root.AddCommand(newSecretCmd(), newPasswordCmd(), newTokenCmd(), newUserCmd())
	return root
}

// ─── secret ───

func newSecretCmd() *cobra.Command {
	var size int
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Genera una clave HMAC aleatoria en base64 (para JWT_SECRET_KEY)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := generateSecret(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	generate.Flags().IntVar(&size, "bytes", 32, "tamaño en bytes (32 para HS256, 48 HS384, 64 HS512)")

	secret := &cobra.Command{Use: "secret", Short: "Claves de firma"}
	secret.AddCommand(generate)
	return secret
}

func generateSecret(size int) (string, error) {
	if size < 32 {
		return "", fmt.Errorf("secret: at least 32 bytes required, got %d", size)
	}
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// ─── password ───

func newPasswordCmd() *cobra.Command {
	var (
		algo       string
		cost       int
		skipPolicy bool
	)
	hash := &cobra.Command{
		Use:   "hash [password]",
		Short: "Hashea una contraseña para el directorio (lee stdin si no se pasa argumento)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plain, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}
			if !skipPolicy {
				if err := password.DefaultPolicy.Check(plain); err != nil {
					return err
				}
			}
			h, err := password.NewHasher(algo, cost)
			if err != nil {
				return err
			}
			out, err := h.Hash(plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	hash.Flags().StringVar(&algo, "algo", "bcrypt", "algoritmo: bcrypt|argon2id")
	hash.Flags().IntVar(&cost, "cost", password.DefaultBcryptCost, "costo bcrypt")
	hash.Flags().BoolVar(&skipPolicy, "skip-policy", false, "no exigir la política mínima")

	pw := &cobra.Command{Use: "password", Short: "Contraseñas"}
	pw.AddCommand(hash)
	return pw
}

// ─── token ───

type inspectOutput struct {
	Algorithm string        `json:"alg"`
	Expired   bool          `json:"expired"`
	ExpiresIn string        `json:"expiresIn,omitempty"`
	Claims    *jwt.ClaimSet `json:"claims"`
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		alg    string
	)
	inspect := &cobra.Command{
		Use:   "inspect [token]",
		Short: "Verifica la firma de un access token y muestra sus claims",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}
			res, err := inspectToken(secret, alg, strings.TrimPrefix(raw, jwt.BearerPrefix), time.Now())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	inspect.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET_KEY"), "clave base64 (env JWT_SECRET_KEY)")
	inspect.Flags().StringVar(&alg, "alg", envOr("JWT_ALGORITHM", "HS256"), "algoritmo esperado")

	tok := &cobra.Command{Use: "token", Short: "Access tokens"}
	tok.AddCommand(inspect)
	return tok
}

func inspectToken(secret, alg, token string, now time.Time) (*inspectOutput, error) {
	codec, err := jwt.NewCodec(secret, alg)
	if err != nil {
		return nil, err
	}
	claims, err := codec.Parse(token)
	if err != nil {
		return nil, err
	}
	out := &inspectOutput{Algorithm: codec.Algorithm(), Claims: claims}
	exp := claims.ExpiresAtTime()
	if exp.IsZero() || !now.Before(exp) {
		out.Expired = true
	} else {
		out.ExpiresIn = exp.Sub(now).Round(time.Second).String()
	}
	return out, nil
}

// ─── user ───

func newUserCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)
	lookup := &cobra.Command{
		Use:   "lookup <username>",
		Short: "Consulta un usuario en el directorio (sin el hash de la contraseña)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := directory.NewGateway(directory.Config{BaseURL: baseURL, Timeout: timeout}, nil)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			profile, err := gw.Fetch(ctx, args[0])
			if err != nil {
				return err
			}
			profile.Password = ""
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(profile)
		},
	}
	lookup.Flags().StringVar(&baseURL, "base-url", os.Getenv("DIRECTORY_BASE_URL"), "URL base del iam-service (env DIRECTORY_BASE_URL)")
	lookup.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "timeout de la consulta")

	user := &cobra.Command{Use: "user", Short: "Directorio de usuarios"}
	user.AddCommand(lookup)
	return user
}

func argOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("input required (argument or stdin)")
	}
	return line, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
