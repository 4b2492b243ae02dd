package azureopenai

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Credential builds the Entra ID credential for cfg. A service principal is
// used when tenant, client and secret are all set. Otherwise the chain tries
// environment variables, the Azure Developer CLI, the Azure CLI and finally
// the default credential, skipping sources that cannot be constructed.
func Credential(cfg AzureConfig) (azcore.TokenCredential, error) {
	if cfg.TenantID != "" && cfg.ClientID != "" && cfg.ClientSecret != "" {
		cred, err := azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)
		if err != nil {
			return nil, eris.Wrap(err, "azureopenai: client secret credential")
		}
		return cred, nil
	}

	var chain []azcore.TokenCredential
	add := func(name string, cred azcore.TokenCredential, err error) {
		if err != nil {
			zap.L().Debug("azureopenai: credential source skipped", zap.String("source", name), zap.Error(err))
			return
		}
		chain = append(chain, cred)
	}

	env, err := azidentity.NewEnvironmentCredential(nil)
	add("environment", env, err)
	azd, err := azidentity.NewAzureDeveloperCLICredential(nil)
	add("azd", azd, err)
	cli, err := azidentity.NewAzureCLICredential(nil)
	add("az", cli, err)
	def, err := azidentity.NewDefaultAzureCredential(nil)
	add("default", def, err)

	if len(chain) == 0 {
		return nil, eris.New("azureopenai: no credential source available")
	}
	cred, err := azidentity.NewChainedTokenCredential(chain, nil)
	if err != nil {
		return nil, eris.Wrap(err, "azureopenai: chain credentials")
	}
	return cred, nil
}
